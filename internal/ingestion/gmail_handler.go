package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailHandler pulls resume attachments out of a recruiting mailbox
type GmailHandler struct {
	service    *gmail.Service
	uploadsDir string
}

// LoadOAuthConfig reads an installed-app client secret for read-only Gmail access
func LoadOAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return config, nil
}

// NewGmailHandler creates a handler from stored credentials. The token must
// already exist; run the gmail-auth command once to create it.
func NewGmailHandler(ctx context.Context, credentialsPath, tokenPath, uploadsDir string) (*GmailHandler, error) {
	config, err := LoadOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}

	tok, err := TokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("gmail token not found at %s (run gmail-auth first): %w", tokenPath, err)
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service:    srv,
		uploadsDir: uploadsDir,
	}, nil
}

// AuthCodeURL returns the consent page URL for offline access
func AuthCodeURL(config *oauth2.Config) string {
	return config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

// ExchangeAndSave trades an authorization code for a token and stores it
func ExchangeAndSave(ctx context.Context, config *oauth2.Config, code, tokenPath string) error {
	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return SaveToken(tokenPath, tok)
}

// TokenFromFile retrieves a token from a local file
func TokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// SaveToken saves a token to a file path
func SaveToken(path string, token *oauth2.Token) error {
	log.Printf("saving gmail token to %s", path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// FetchAttachments downloads resume attachments from messages whose subject
// matches and returns the saved paths. Unreadable messages are logged and skipped.
func (gh *GmailHandler) FetchAttachments(ctx context.Context, subject string) ([]string, error) {
	if err := os.MkdirAll(gh.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	user := "me"
	query := fmt.Sprintf("subject:%q has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}
	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var saved []string
	for _, msg := range r.Messages {
		message, err := gh.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			log.Printf("unable to retrieve message %s: %v", msg.Id, err)
			continue
		}

		senderName := extractSenderName(message)
		for _, part := range resumeParts(message.Payload) {
			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				log.Printf("unable to retrieve attachment %s: %v", part.Filename, err)
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				log.Printf("unable to decode attachment %s: %v", part.Filename, err)
				continue
			}

			filePath := filepath.Join(gh.uploadsDir, attachmentFileName(senderName, part.Filename))
			if err := os.WriteFile(filePath, data, 0644); err != nil {
				log.Printf("unable to write file %s: %v", filePath, err)
				continue
			}

			log.Printf("downloaded resume %s", filepath.Base(filePath))
			saved = append(saved, filePath)
		}
	}

	return saved, nil
}

// resumeParts walks a message payload and returns attachments with a resume extension
func resumeParts(part *gmail.MessagePart) []*gmail.MessagePart {
	if part == nil {
		return nil
	}

	var out []*gmail.MessagePart
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" && IsSupported(part.Filename) {
		out = append(out, part)
	}
	for _, child := range part.Parts {
		out = append(out, resumeParts(child)...)
	}
	return out
}

// attachmentFileName prefixes the attachment with the sender so files from
// different applicants never collide
func attachmentFileName(senderName, filename string) string {
	return fmt.Sprintf("%s_%s", senderName, filepath.Base(filename))
}

// extractSenderName extracts the sender's name from email headers
func extractSenderName(message *gmail.Message) string {
	if message.Payload == nil {
		return "Unknown"
	}
	for _, header := range message.Payload.Headers {
		if header.Name == "From" {
			// "Name <email@example.com>"
			from := header.Value
			if idx := strings.Index(from, "<"); idx > 0 {
				name := strings.TrimSpace(from[:idx])
				name = strings.Trim(name, `"`)
				return strings.ReplaceAll(name, " ", "")
			}
			if idx := strings.Index(from, "@"); idx > 0 {
				return from[:idx]
			}
			return "Unknown"
		}
	}
	return "Unknown"
}
