package utils

import (
	"fmt"
	"math/rand"
	"time"

	config "github.com/tutormatch/api/configs"
)

const roomCodeLength = 10
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateMeetingLink builds a meeting room URL with a random code.
// Used when a booking is confirmed without an explicit link.
func GenerateMeetingLink() string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}

	base := config.ConfigOr("MEET_BASE_URL", "https://meet.tutormatch.io")
	return fmt.Sprintf("%s/%s", base, string(b))
}
