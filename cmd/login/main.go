/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"

	"ppob-wallet-go/internal/common"
	"ppob-wallet-go/internal/config"
	"ppob-wallet-go/internal/gateway"

	"go.uber.org/zap"
)

type loginRequest struct {
	email     string
	password  string
	register  bool
	logout    bool
	firstName string
	lastName  string
}

func parseAndValidateFlags() (*loginRequest, error) {
	emailFlag := flag.String("email", "", "Account email (required unless --logout)")
	passwordFlag := flag.String("password", "", "Account password (required unless --logout)")
	registerFlag := flag.Bool("register", false, "Create the account before logging in")
	logoutFlag := flag.Bool("logout", false, "Discard the stored session token and exit")
	firstNameFlag := flag.String("first-name", "", "First name (required with --register)")
	lastNameFlag := flag.String("last-name", "", "Last name (required with --register)")
	flag.Parse()

	if *logoutFlag {
		if *registerFlag {
			return nil, fmt.Errorf("--logout cannot be combined with --register")
		}
		return &loginRequest{logout: true}, nil
	}

	if *emailFlag == "" || *passwordFlag == "" {
		return nil, fmt.Errorf("required flags: --email, --password")
	}
	if *registerFlag && (*firstNameFlag == "" || *lastNameFlag == "") {
		return nil, fmt.Errorf("--register requires --first-name and --last-name")
	}

	return &loginRequest{
		email:     *emailFlag,
		password:  *passwordFlag,
		register:  *registerFlag,
		firstName: *firstNameFlag,
		lastName:  *lastNameFlag,
	}, nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req, err := parseAndValidateFlags()
	if err != nil {
		zap.L().Fatal("Invalid flags", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	client, tokens, err := common.InitializeGatewayOnly(cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize gateway client", zap.Error(err))
	}

	if req.logout {
		if err := tokens.Clear(); err != nil {
			zap.L().Fatal("Failed to clear session token", zap.Error(err))
		}
		zap.L().Info("Session token cleared")
		common.PrintFooter("Logged out. Session token removed.", common.DefaultWidth)
		return
	}

	if req.register {
		zap.L().Info("Registering account", zap.String("email", req.email))
		err = client.Register(ctx, gateway.RegisterParams{
			Email:     req.email,
			FirstName: req.firstName,
			LastName:  req.lastName,
			Password:  req.password,
		})
		if err != nil {
			common.PrintHeader("REGISTRATION FAILED", common.DefaultWidth)
			fmt.Printf("Error: %v\n", err)
			common.PrintSeparator("=", common.DefaultWidth)
			zap.L().Fatal("Registration failed", zap.Error(err))
		}
		fmt.Println("\nAccount registered:", req.email)
	}

	token, err := client.Login(ctx, req.email, req.password)
	if err != nil {
		common.PrintHeader("LOGIN FAILED", common.DefaultWidth)
		fmt.Printf("Error: %v\n", err)
		common.PrintSeparator("=", common.DefaultWidth)
		zap.L().Fatal("Login failed", zap.String("email", req.email), zap.Error(err))
	}

	if err := tokens.Save(token); err != nil {
		zap.L().Fatal("Failed to persist session token", zap.Error(err))
	}

	zap.L().Info("Login successful", zap.String("email", req.email))
	common.PrintFooter(fmt.Sprintf("Logged in as %s. Session token saved to %s", req.email, cfg.TokenFile), common.DefaultWidth)
}
