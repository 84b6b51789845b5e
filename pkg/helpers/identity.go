package helpers

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

var (
	avatarSeeds       = []string{"Garfield", "Tinkerbell", "Annie", "Loki", "Cleo", "Angel", "Bob", "Mia", "Coco", "Gracie", "Bear", "Bella", "Abby", "Harley", "Cali", "Leo", "Luna", "Jack", "Felix", "Kiki"}
	avatarCollections = []string{"notionists-neutral", "adventurer-neutral", "fun-emoji"}
)

// RandomAvatarURL picks a dicebear avatar for a new account
func RandomAvatarURL() string {
	collection := avatarCollections[rand.Intn(len(avatarCollections))]
	seed := avatarSeeds[rand.Intn(len(avatarSeeds))]
	return fmt.Sprintf("https://api.dicebear.com/6.x/%s/svg?seed=%s", collection, seed)
}

// EmailLocalPart returns the part of the address before '@'
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// UsernameSuffix returns a short random alphanumeric suffix used to disambiguate usernames
func UsernameSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:3]
}
