package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	config "github.com/tutormatch/api/configs"
	"github.com/tutormatch/api/database"
	"github.com/tutormatch/api/models"
	"github.com/tutormatch/api/notifications"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Session Receipt</title></head>
<body>
  <h1>TutorMatch Session Receipt</h1>
  <p>Booking: {{.BookingID}}</p>
  <table>
    <tr><td>Student</td><td>{{.StudentName}}</td></tr>
    <tr><td>Teacher</td><td>{{.TeacherName}}</td></tr>
    <tr><td>Subject</td><td>{{.Subject}}</td></tr>
    <tr><td>Date</td><td>{{.Date}}</td></tr>
    <tr><td>Time</td><td>{{.StartTime}} &ndash; {{.EndTime}}</td></tr>
    <tr><td>Duration</td><td>{{.Duration}} minutes</td></tr>
    <tr><td>Amount</td><td>{{printf "%.2f" .Price}}</td></tr>
  </table>
  <p>Issued {{.IssuedAt}}</p>
</body>
</html>`

// GenerateBookingReceipt renders a PDF receipt for a completed session,
// uploads it, stores the URL on the booking, and emails the student.
// Runs asynchronously after the completion transition commits; failures
// are logged and never affect the booking.
func GenerateBookingReceipt(bookingID uuid.UUID) {
	var booking models.Booking
	if err := database.DB.Preload("Student").Preload("Teacher").First(&booking, "id = ?", bookingID).Error; err != nil {
		log.Printf("🔥 Receipt: booking %s not found: %v", bookingID, err)
		return
	}
	if booking.Status != models.StatusCompleted || booking.ReceiptURL != nil {
		return
	}

	htmlData, err := renderReceiptHTML(&booking)
	if err != nil {
		log.Printf("🔥 Failed to render receipt HTML for booking %s: %v", booking.ID, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for booking %s: %v", booking.ID, err)
		return
	}

	uploadURL, err := uploadReceipt(pdfBytes, booking.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for booking %s: %v", booking.ID, err)
		return
	}

	booking.ReceiptURL = &uploadURL
	if err := database.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
		Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to store receipt URL for booking %s: %v", booking.ID, err)
		return
	}

	notifications.SendEmail(booking.Student.FullName, booking.Student.Email,
		"Your Session Receipt",
		fmt.Sprintf("<h1>Session Receipt</h1><p>Thank you for learning with us. Your receipt is available <a href='%s'>here</a>.</p>", uploadURL))

	log.Printf("✅ Generated receipt for booking %s", booking.ID)
}

func renderReceiptHTML(booking *models.Booking) (string, error) {
	tmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		BookingID   string
		StudentName string
		TeacherName string
		Subject     string
		Date        string
		StartTime   string
		EndTime     string
		Duration    int
		Price       float64
		IssuedAt    string
	}{
		BookingID:   booking.ID.String(),
		StudentName: booking.Student.FullName,
		TeacherName: booking.Teacher.FullName,
		Subject:     booking.Subject,
		Date:        booking.Date.Format("January 2, 2006"),
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		Duration:    booking.Duration,
		Price:       booking.Price,
		IssuedAt:    time.Now().Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, bookingID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", bookingID, uuid.New().String()),
		Folder:       "tutormatch_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
