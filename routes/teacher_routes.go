package routes

import (
	"github.com/tutormatch/api/handlers"
	"github.com/tutormatch/api/middleware"
	"github.com/gofiber/fiber/v2"
)

func TeacherRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/teachers", handlers.ListActiveTeachers)
	api.Get("/teachers/:teacherId/availability", handlers.GetTeacherAvailability)
	api.Get("/teachers/:teacherId", handlers.GetTeacherProfile)
	api.Get("/subjects", handlers.ListSubjects)

	teacher := api.Group("/teacher", middleware.Protected())
	teacher.Post("/apply", handlers.ApplyToBeATeacher)
	teacher.Get("/earnings", middleware.TeacherRequired(), handlers.GetTeacherEarnings)

	profile := teacher.Group("/profile", middleware.TeacherRequired())
	profile.Get("/me", handlers.GetMyTeacherProfile)
	profile.Put("/me", handlers.UpdateMyTeacherProfile)

	teacherSubjects := teacher.Group("/subjects", middleware.TeacherRequired())
	teacherSubjects.Post("", handlers.AddSubjectToProfile)
	teacherSubjects.Delete("/:subjectId", handlers.RemoveSubjectFromProfile)
}
