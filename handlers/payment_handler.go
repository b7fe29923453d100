package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/notifications"
	"github.com/tutormatch/api/payments"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// markBookingPaymentStatus is the only write path into a booking's
// payment status. Lifecycle fields are never touched here.
func markBookingPaymentStatus(tx *gorm.DB, bookingID *uuid.UUID, status string) error {
	if bookingID == nil {
		return nil
	}
	return tx.Model(&models.Booking{}).Where("id = ?", bookingID).
		Update("payment_status", status).Error
}

type GatewayWebhookPayload struct {
	OrderID    string `json:"order_id"`
	ResultCode int    `json:"result_code"`
	ResultDesc string `json:"result_desc"`
	TxnID      string `json:"txn_id"`
}

func HandlePaymentWebhook(c *fiber.Ctx) error {
	var payload GatewayWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	log.Printf("Received payment webhook for order %s, result code %d", payload.OrderID, payload.ResultCode)

	var payment models.Payment
	if err := database.DB.Where("provider_order_id = ?", payload.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}

	if payment.Status == "paid" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook already processed"})
	}

	if payload.ResultCode != 0 {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			payment.Status = "failed"
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}
			return markBookingPaymentStatus(tx, payment.BookingID, "failed")
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Acknowledged failed payment"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = "paid"
		if payload.TxnID != "" {
			payment.ProviderTxnID = &payload.TxnID
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		return markBookingPaymentStatus(tx, payment.BookingID, "paid")
	})
	if err != nil {
		log.Printf("🔥 CRITICAL: Error processing successful webhook for order %s: %v", payload.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process webhook"})
	}

	if payment.BookingID != nil {
		var booking models.Booking
		if err := database.DB.Preload("Student").First(&booking, "id = ?", payment.BookingID).Error; err == nil {
			go notifications.SendEmail(booking.Student.FullName, booking.Student.Email,
				"Payment Received",
				"<h1>Payment Received</h1><p>Your payment was successful. Your session is awaiting the teacher's confirmation.</p>")
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Webhook processed successfully"})
}

func CreateCheckoutOrderHandler(c *fiber.Ctx) error {
	paymentID := c.Params("paymentId")
	if _, err := uuid.Parse(paymentID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID format"})
	}

	var payment models.Payment
	if err := database.DB.Where("id = ? AND status = ?", paymentID, "pending").First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pending payment not found for this ID"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	order, err := payments.CreateCheckoutOrder(payment.Amount, payment.Currency)
	if err != nil {
		log.Printf("🔥 Gateway CreateCheckoutOrder failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create checkout order"})
	}

	payment.ProviderOrderID = &order.ID
	if err := database.DB.Save(&payment).Error; err != nil {
		log.Printf("🔥 Failed to save ProviderOrderID: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update payment record"})
	}

	return c.JSON(fiber.Map{"orderID": order.ID})
}

func CaptureCheckoutOrderHandler(c *fiber.Ctx) error {
	type CaptureRequest struct {
		OrderID string `json:"orderID" validate:"required"`
	}
	var req CaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var payment models.Payment
	if err := database.DB.Where("provider_order_id = ?", req.OrderID).First(&payment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found for this order"})
	}

	capturedOrder, err := payments.CaptureCheckoutOrder(req.OrderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if capturedOrder.Status != "COMPLETED" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Order not completed on the provider's end"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		payment.Status = "paid"
		payment.ProviderTxnID = &capturedOrder.ID
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}
		return markBookingPaymentStatus(tx, payment.BookingID, "paid")
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to finalize payment"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Payment captured"})
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// RequestRefund records a refund request on a paid booking's payment.
// An admin reviews and settles it; the booking itself stays untouched
// until a cancel transition is issued through the lifecycle engine.
func RequestRefund(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID, _ := uuid.Parse(claims["user_id"].(string))
	bookingID := c.Params("bookingId")

	var req RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	if err := database.DB.First(&booking, "id = ?", bookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}
	if booking.StudentID != studentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your booking"})
	}
	if sessionEnd(&booking).Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot request a refund for a session that has already ended"})
	}

	var payment models.Payment
	if err := database.DB.First(&payment, "booking_id = ?", booking.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
	}

	refundStatus := "requested"
	payment.RefundStatus = &refundStatus
	payment.RefundReason = &req.Reason
	database.DB.Save(&payment)

	return c.JSON(fiber.Map{"message": "Refund request submitted successfully. An admin will review it shortly."})
}
