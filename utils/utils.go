package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCertificateNumber returns CERT-<year>-<8 upper hex chars>
func GenerateCertificateNumber(issuedAt time.Time) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("CERT-%d-%s", issuedAt.Year(), strings.ToUpper(hex[:8]))
}

// GenerateVerificationCode returns an unguessable public verification code
func GenerateVerificationCode() string {
	return uuid.NewString()
}

// ShuffleQuestionOrder returns a shuffled copy of items
func ShuffleQuestionOrder[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatID renders a numeric id for links and messages
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
