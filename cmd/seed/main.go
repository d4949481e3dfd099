// Command seed populates a fresh data directory with demo accounts,
// posts, and follow edges so the app has something to show on first
// run. Existing data is left alone.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"pulse-backend/domain/core/entities"
	"pulse-backend/domain/core/valueobjects"
	"pulse-backend/infrastructure/config"
	"pulse-backend/infrastructure/di"
	"pulse-backend/pkg/auth"

	"go.uber.org/zap"
)

const demoPassword = "ipassword123"

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	existing, err := container.Stores.Users.ListUsers(ctx)
	if err != nil {
		logger.Fatal("Failed to inspect user directory", zap.Error(err))
	}
	if len(existing) > 0 {
		logger.Info("Data already present, nothing to seed", zap.Int("users", len(existing)))
		return
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		logger.Fatal("Failed to hash demo password", zap.Error(err))
	}

	users := []*entities.AuthUser{
		{
			User: entities.User{
				ID:          "u1",
				Handle:      "designerdan",
				Name:        "Daniel Carter",
				AvatarColor: "#38bdf8",
			},
			Email:        "daniel@example.com",
			PasswordHash: hash,
		},
		{
			User: entities.User{
				ID:          "u2",
				Handle:      "devjules",
				Name:        "Julia Michaels",
				AvatarColor: "#a855f7",
			},
			Email:        "julia@example.com",
			PasswordHash: hash,
		},
		{
			User: entities.User{
				ID:          "u3",
				Handle:      "productnaya",
				Name:        "Naya Patel",
				AvatarColor: "#f97316",
			},
			Email:        "naya@example.com",
			PasswordHash: hash,
		},
	}

	for _, u := range users {
		if err := container.Stores.Users.CreateUser(ctx, u); err != nil {
			logger.Fatal("Failed to seed user", zap.String("handle", u.Handle), zap.Error(err))
		}
	}

	for _, edge := range [][2]string{
		{"u1", "u2"},
		{"u1", "u3"},
		{"u2", "u1"},
	} {
		if err := container.Stores.Graph.AddEdge(ctx, edge[0], edge[1]); err != nil {
			logger.Fatal("Failed to seed follow edge", zap.Error(err))
		}
	}

	now := time.Now().UnixMilli()
	hour := int64(time.Hour / time.Millisecond)
	minute := int64(time.Minute / time.Millisecond)

	posts := []struct {
		authorID string
		content  string
		mediaURL string
		ago      int64
		likedBy  []string
	}{
		{
			authorID: "u2",
			content:  "Shipping a tiny social app tonight. In-memory DB, but the vibes are very real.",
			mediaURL: "https://images.unsplash.com/photo-1522199710521-72d69614c702?auto=format&fit=crop&w=1200&q=80",
			ago:      hour,
			likedBy:  []string{"u1", "u3"},
		},
		{
			authorID: "u1",
			content:  "Dark glassmorphism + neon accents is still undefeated for dashboards.",
			mediaURL: "https://images.pexels.com/photos/2706379/pexels-photo-2706379.jpeg?auto=compress&cs=tinysrgb&w=1200",
			ago:      15 * minute,
			likedBy:  []string{"u2"},
		},
	}

	var lastPostID string
	for _, p := range posts {
		next, err := container.Stores.Sequence.Next(ctx)
		if err != nil {
			logger.Fatal("Failed to advance id counter", zap.Error(err))
		}

		content, err := valueobjects.NewContent(p.content, 2000)
		if err != nil {
			logger.Fatal("Invalid seed content", zap.Error(err))
		}
		media, err := valueobjects.NewMediaRef(p.mediaURL, valueobjects.MediaImage)
		if err != nil {
			logger.Fatal("Invalid seed media", zap.Error(err))
		}

		post, err := entities.NewPost(postID(next), p.authorID, content, media, now-p.ago)
		if err != nil {
			logger.Fatal("Invalid seed post", zap.Error(err))
		}
		post.LikeUserIDs = p.likedBy

		if err := container.Stores.Content.SavePost(ctx, post); err != nil {
			logger.Fatal("Failed to seed post", zap.Error(err))
		}
		lastPostID = post.ID
	}

	next, err := container.Stores.Sequence.Next(ctx)
	if err != nil {
		logger.Fatal("Failed to advance id counter", zap.Error(err))
	}
	commentContent, err := valueobjects.NewContent("Drop the Figma file 👀", 500)
	if err != nil {
		logger.Fatal("Invalid seed content", zap.Error(err))
	}
	comment, err := entities.NewComment(commentID(next), lastPostID, "u3", commentContent, now-10*minute)
	if err != nil {
		logger.Fatal("Invalid seed comment", zap.Error(err))
	}
	if err := container.Stores.Content.AppendComment(ctx, comment); err != nil {
		logger.Fatal("Failed to seed comment", zap.Error(err))
	}

	logger.Info("Demo data seeded",
		zap.Int("users", len(users)),
		zap.Int("posts", len(posts)),
	)
}

func postID(n int64) string {
	return fmt.Sprintf("p%d", n)
}

func commentID(n int64) string {
	return fmt.Sprintf("c%d", n)
}
