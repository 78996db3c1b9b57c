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
	"os"
	"path/filepath"

	"ppob-wallet-go/internal/common"
	"ppob-wallet-go/internal/config"
	"ppob-wallet-go/internal/models"

	"go.uber.org/zap"
)

type profileRequest struct {
	firstName string
	lastName  string
	imagePath string
}

// update reports whether any mutating flag was given; with none, the tool
// just shows the current profile.
func (r *profileRequest) update() bool {
	return r.firstName != "" || r.lastName != "" || r.imagePath != ""
}

func parseFlags() *profileRequest {
	firstNameFlag := flag.String("first-name", "", "New first name")
	lastNameFlag := flag.String("last-name", "", "New last name")
	imageFlag := flag.String("image", "", "Path to a new profile image")
	flag.Parse()

	return &profileRequest{
		firstName: *firstNameFlag,
		lastName:  *lastNameFlag,
		imagePath: *imageFlag,
	}
}

func updateName(ctx context.Context, services *common.Services, req *profileRequest, current *models.Profile) (*models.Profile, error) {
	firstName := req.firstName
	if firstName == "" {
		firstName = current.FirstName
	}
	lastName := req.lastName
	if lastName == "" {
		lastName = current.LastName
	}

	zap.L().Info("Updating profile name",
		zap.String("first_name", firstName),
		zap.String("last_name", lastName))
	return services.Gateway.UpdateProfile(ctx, firstName, lastName)
}

func updateImage(ctx context.Context, services *common.Services, imagePath string) (*models.Profile, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("unable to open image file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			zap.L().Warn("Failed to close image file", zap.Error(err))
		}
	}()

	zap.L().Info("Updating profile image", zap.String("file", imagePath))
	return services.Gateway.UpdateProfileImage(ctx, filepath.Base(imagePath), file)
}

func printProfile(profile *models.Profile) {
	common.PrintHeader("PROFIL", common.DefaultWidth)
	fmt.Printf("Nama:  %s %s\n", profile.FirstName, profile.LastName)
	fmt.Printf("Email: %s\n", profile.Email)
	if profile.ProfileImage != "" {
		fmt.Printf("Foto:  %s\n", profile.ProfileImage)
	}
	common.PrintSeparator("=", common.DefaultWidth)
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	req := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	profile, err := services.Gateway.GetProfile(ctx)
	if err != nil {
		zap.L().Fatal("Failed to fetch profile; is the session token still valid?", zap.Error(err))
	}

	if !req.update() {
		printProfile(profile)
		return
	}

	if req.firstName != "" || req.lastName != "" {
		profile, err = updateName(ctx, services, req, profile)
		if err != nil {
			zap.L().Fatal("Failed to update profile", zap.Error(err))
		}
	}

	if req.imagePath != "" {
		profile, err = updateImage(ctx, services, req.imagePath)
		if err != nil {
			zap.L().Fatal("Failed to update profile image", zap.Error(err))
		}
	}

	fmt.Println("\nProfil diperbarui.")
	printProfile(profile)
}
