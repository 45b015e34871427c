package pkg

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateGameID - generates a globally unique identifier for a game instance.
func GenerateGameID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
