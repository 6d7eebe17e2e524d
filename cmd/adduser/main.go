package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/glowlab/dermalyze/internal/config"
	"github.com/glowlab/dermalyze/internal/database"
	"github.com/glowlab/dermalyze/internal/domain"
	"github.com/glowlab/dermalyze/internal/repository"
)

// Provisions a user and prints the one-time access token. Only the
// SHA-256 of the token is stored.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	externalID := flag.String("external-id", "", "Identifier from the mobile app's auth system")
	tier := flag.String("tier", "free", "Entitlement tier: free or premium")
	premiumDays := flag.Int("premium-days", 30, "Premium validity in days (premium tier only)")
	flag.Parse()

	if *externalID == "" {
		return fmt.Errorf("external-id flag is required")
	}
	if *tier != string(domain.TierFree) && *tier != string(domain.TierPremium) {
		return fmt.Errorf("invalid tier: %s (use: free, premium)", *tier)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	hash := sha256.Sum256([]byte(token))

	user := &domain.User{
		ExternalID: *externalID,
		TokenHash:  hex.EncodeToString(hash[:]),
		Tier:       domain.Tier(*tier),
		IsActive:   true,
	}
	if user.Tier == domain.TierPremium {
		until := time.Now().UTC().AddDate(0, 0, *premiumDays)
		user.PremiumUntil = &until
	}

	users := repository.NewUserRepository(pool)
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("USER_ID=%s\nTOKEN=%s\nTIER=%s\n", user.ID, token, user.Tier)
	if user.PremiumUntil != nil {
		fmt.Printf("PREMIUM_UNTIL=%s\n", user.PremiumUntil.Format(time.RFC3339))
	}
	return nil
}

// generateToken returns a 32-byte random token, hex encoded, with a
// prefix that makes leaked tokens easy to grep for.
func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "dlz_" + hex.EncodeToString(buf), nil
}
