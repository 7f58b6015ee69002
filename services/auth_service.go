package services

import (
	"errors"

	"backend/config"
	"backend/models"
	"backend/utils"
)

func RegisterUser(email, password, fullName string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}

	return config.DB.Create(&user).Error
}

func FindUserByEmail(email string) (models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, errors.New("user not found")
	}
	return user, nil
}

// AuthenticateUser verifies credentials and returns the matching user.
func AuthenticateUser(email, password string) (models.User, error) {
	user, err := FindUserByEmail(email)
	if err != nil {
		return models.User{}, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return models.User{}, errors.New("incorrect password")
	}

	return user, nil
}
