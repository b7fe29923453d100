package handlers

import (
	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	TimeZone          *string `json:"time_zone"`
	LearningGoals     *string `json:"learning_goals"`
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.TimeZone != nil {
		user.TimeZone = req.TimeZone
	}
	if req.LearningGoals != nil {
		user.LearningGoals = req.LearningGoals
	}

	database.DB.Save(&user)

	return c.JSON(user)
}

func GetMyProgress(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))

	var totalSessions int64
	database.DB.Model(&models.Booking{}).
		Where("student_id = ? AND status = ?", studentID, models.StatusCompleted).
		Count(&totalSessions)

	var totalMinutes int64
	database.DB.Model(&models.Booking{}).
		Where("student_id = ? AND status = ?", studentID, models.StatusCompleted).
		Select("COALESCE(SUM(duration), 0)").
		Row().Scan(&totalMinutes)

	return c.JSON(fiber.Map{
		"total_sessions_completed": totalSessions,
		"total_hours_learned":      float64(totalMinutes) / 60,
	})
}
