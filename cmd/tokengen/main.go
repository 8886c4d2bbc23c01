// Package main mints development tokens for the universitas API.
// Tokens are signed with the dev key unless -key is given and will NOT
// validate against a production deployment.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"universitas/internal/auth/models"
	"universitas/internal/auth/policy"
	jwttoken "universitas/internal/jwt_token"
	"universitas/internal/platform/config"
	id "universitas/pkg/domain"
)

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

type tokenOutput struct {
	Access  string            `json:"access,omitempty"`
	Refresh string            `json:"refresh,omitempty"`
	UserID  string            `json:"user_id"`
	Claims  map[string]any    `json:"claims,omitempty"`
	Usage   map[string]string `json:"usage"`
}

type options struct {
	userID     string
	role       string
	username   string
	fullName   string
	grade      string
	key        string
	accessTTL  time.Duration
	refreshTTL time.Duration
	jsonOutput bool
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access", "pair":
		opts, err := parseFlags(os.Args[1], os.Args[2:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if err := generate(os.Args[1] == "pair", opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseFlags(name string, args []string) (*options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	opts := &options{}
	fs.StringVar(&opts.userID, "user-id", "", "Account ID (UUID). Generated if empty.")
	fs.StringVar(&opts.role, "role", string(models.RoleInstructor), "Role claim: student or instructor")
	fs.StringVar(&opts.username, "username", "dev", "Username claim")
	fs.StringVar(&opts.fullName, "full-name", "Dev User", "Full name claim")
	fs.StringVar(&opts.grade, "grade", "", "Grade claim (0-100). Null if empty.")
	fs.StringVar(&opts.key, "key", config.DevSigningKey, "HS256 signing key")
	fs.DurationVar(&opts.accessTTL, "ttl", defaultAccessTTL, "Access token time-to-live")
	fs.DurationVar(&opts.refreshTTL, "refresh-ttl", defaultRefreshTTL, "Refresh token time-to-live")
	fs.BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if !models.Role(opts.role).IsValid() {
		return nil, fmt.Errorf("unknown role %q", opts.role)
	}
	return opts, nil
}

func generate(withRefresh bool, opts *options) error {
	uid := id.NewUserID()
	if opts.userID != "" {
		parsed, err := id.ParseUserID(opts.userID)
		if err != nil {
			return fmt.Errorf("invalid -user-id: %w", err)
		}
		uid = parsed
	}

	grade, err := policy.ParseGrade(models.GradeInput{Raw: opts.grade, Set: opts.grade != ""})
	if err != nil {
		return fmt.Errorf("invalid -grade: %w", err)
	}

	account := &models.Account{
		ID:       uid,
		Username: opts.username,
		FullName: opts.fullName,
		Role:     models.Role(opts.role),
		Grade:    grade,
	}
	profile := policy.BuildClaims(account)

	svc := jwttoken.NewJWTService(opts.key, opts.accessTTL, opts.refreshTTL)
	ctx := context.Background()

	out := tokenOutput{
		UserID: uid.String(),
		Claims: map[string]any{
			"role":      profile.Role,
			"username":  profile.Username,
			"full_name": profile.FullName,
			"grade":     profile.Grade,
		},
		Usage: map[string]string{
			"header": "Authorization: Bearer <access>",
		},
	}
	if withRefresh {
		out.Access, out.Refresh, err = svc.GenerateTokenPair(ctx, uid, profile)
	} else {
		out.Access, err = svc.GenerateAccessToken(ctx, uid, profile)
	}
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("User ID:   %s\n", out.UserID)
	fmt.Printf("Role:      %s\n", profile.Role)
	fmt.Printf("Expires:   %s\n", opts.accessTTL)
	fmt.Println()
	fmt.Println(out.Access)
	if out.Refresh != "" {
		fmt.Println()
		fmt.Println("Refresh Token")
		fmt.Println("=============")
		fmt.Println(out.Refresh)
	}
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <access>\" http://localhost:8000/api/auth/students/")
	return nil
}

func printUsage() {
	fmt.Println(`tokengen - Mint development tokens for the universitas API

WARNING: Tokens are signed with the dev key by default and will NOT work in
         production. Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  access    Generate an access token
  pair      Generate an access and refresh token pair

Examples:
  # Instructor access token with defaults
  tokengen access

  # Student token carrying a grade
  tokengen access -role student -username ann -grade 88.5

  # Pair signed with a custom key, as JSON
  tokengen pair -key "$JWT_SIGNING_KEY" -json

Use "tokengen <command> -h" for more information about a command.`)
}
