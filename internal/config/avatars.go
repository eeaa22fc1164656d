package config

import "github.com/jaminalder/codex-queens/internal/domain"

// DefaultAvatars is the built-in catalog.
func DefaultAvatars() []domain.Avatar {
    return []domain.Avatar{
        {
            ID:    1,
            Name:  "Rita",
            Bio:   "Rita is the wise queen of the garden kingdom. She spends her days watching butterflies and giving advice to lost bugs.\nLikes: Belly rubs, Sunny naps.\nDislikes: Loud thunder, Soggy grass.",
            Image: "avatar1.png",
        },
        {
            ID:    2,
            Name:  "Lola",
            Bio:   "Lola is the fastest tail-wagger in the land! She's always ready for an adventure, especially if it involves snacks.\nLikes: Cheese cubes, Chasing her tail.\nDislikes: Vacuums, Bedtime.",
            Image: "avatar2.png",
        },
        {
            ID:    3,
            Name:  "Jack",
            Bio:   "Jack is the brave protector of the backyard realm. He barks at anything suspicious and dreams of heroic squirrel chases.\nLikes: Squirrels, Barking.\nDislikes: Mailman, Snakes.",
            Image: "avatar3.png",
        },
        {
            ID:    4,
            Name:  "Pablo",
            Bio:   "Pablo is the royal artist, known for decorating his doghouse with leaves and sticks. He's got a big heart and a goofy grin.\nLikes: Mud puddles, Music.\nDislikes: Baths, Closed doors.",
            Image: "avatar4.png",
        },
    }
}
