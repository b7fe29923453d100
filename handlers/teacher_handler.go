package handlers

import (
	"errors"
	"time"

	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherApplicationRequest struct {
	Headline   string  `json:"headline" validate:"required"`
	Bio        string  `json:"bio" validate:"required"`
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
}

func ApplyToBeATeacher(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req TeacherApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var existingTeacher models.Teacher
	err := database.DB.Where("user_id = ?", userID).First(&existingTeacher).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already submitted an application."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	newApplication := models.Teacher{
		UserID:     userID,
		Headline:   &req.Headline,
		Bio:        &req.Bio,
		HourlyRate: req.HourlyRate,
	}

	if err := database.DB.Create(&newApplication).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create application"})
	}

	return c.Status(fiber.StatusCreated).JSON(newApplication)
}

// GetTeacherAvailability returns the teacher's open one-hour slots for
// a single date. The date query parameter is required; there is no
// default day.
func GetTeacherAvailability(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid teacher id"})
	}

	dateParam := c.Query("date")
	if dateParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date query parameter is required"})
	}
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be in YYYY-MM-DD format"})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, "user_id = ? AND status = ?", teacherID, "active").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active teacher not found"})
	}

	slots, err := services.ComputeAvailableSlots(teacherID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute availability"})
	}

	return c.JSON(slots)
}

type AddSubjectRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid"`
}

func AddSubjectToProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherIDStr := claims["user_id"].(string)

	var req AddSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var teacher models.Teacher
	if err := database.DB.Where("user_id = ?", teacherIDStr).First(&teacher).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	var subject models.Subject
	if err := database.DB.Where("id = ?", req.SubjectID).First(&subject).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subject not found"})
	}

	database.DB.Model(&teacher).Association("Subjects").Append(&subject)

	return c.JSON(fiber.Map{"message": "Subject added successfully"})
}

func RemoveSubjectFromProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherIDStr := claims["user_id"].(string)
	subjectID := c.Params("subjectId")

	var teacher models.Teacher
	if err := database.DB.Where("user_id = ?", teacherIDStr).First(&teacher).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	var subject models.Subject
	if err := database.DB.Where("id = ?", subjectID).First(&subject).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subject not found"})
	}

	database.DB.Model(&teacher).Association("Subjects").Delete(&subject)

	return c.SendStatus(fiber.StatusNoContent)
}

func GetTeacherProfile(c *fiber.Ctx) error {
	teacherID := c.Params("teacherId")

	var teacher models.Teacher
	if err := database.DB.Preload("User").Preload("Subjects").First(&teacher, "user_id = ? AND status = ?", teacherID, "active").Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Active teacher not found"})
	}

	return c.JSON(teacher)
}

func ListActiveTeachers(c *fiber.Ctx) error {
	var activeTeachers []models.Teacher
	query := database.DB.Preload("User").Preload("Subjects").Where("status = ?", "active")

	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Joins("JOIN teacher_subjects ON teacher_subjects.teacher_user_id = teachers.user_id").
			Where("teacher_subjects.subject_id = ?", subjectID)
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		query = query.Where("avg_rating >= ?", minRating)
	}

	if err := query.Find(&activeTeachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve teachers"})
	}

	return c.JSON(activeTeachers)
}

func GetTeacherEarnings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	var teacher models.Teacher
	if err := database.DB.First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	return c.JSON(fiber.Map{"current_balance": teacher.CurrentBalance})
}

func GetMyTeacherProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	var teacher models.Teacher
	if err := database.DB.Preload("User").Preload("Subjects").First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}
	return c.JSON(teacher)
}

func UpdateMyTeacherProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	teacherID, _ := uuid.Parse(claims["user_id"].(string))

	type UpdateRequest struct {
		Headline   string  `json:"headline" validate:"required"`
		Bio        string  `json:"bio" validate:"required"`
		HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, "user_id = ?", teacherID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Teacher profile not found"})
	}

	// Rate changes apply to future bookings only; existing bookings
	// keep the price frozen at their creation.
	teacher.Headline = &req.Headline
	teacher.Bio = &req.Bio
	teacher.HourlyRate = req.HourlyRate
	database.DB.Save(&teacher)

	return c.JSON(teacher)
}
