package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// GDriveService uploads business assets (the company logo) to Google Drive
type GDriveService struct {
	service  *drive.Service
	folderID string
}

// NewGDriveService creates a Drive client from OAuth2 credentials.
// credentialsPath: OAuth2 client credentials JSON (Google Cloud Console)
// tokenPath: saved OAuth2 token JSON
// folderID: the Drive folder uploads land in
func NewGDriveService(credentialsPath, tokenPath, folderID string) (*GDriveService, error) {
	ctx := context.Background()

	credBytes, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(credBytes, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	token, err := tokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	// Token source auto-refreshes; persist the refreshed token so the next
	// start does not need a re-auth.
	tokenSource := config.TokenSource(ctx, token)

	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if newToken.AccessToken != token.AccessToken {
		if err := saveToken(tokenPath, newToken); err != nil {
			fmt.Printf("Warning: failed to save refreshed token: %v\n", err)
		}
	}

	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &GDriveService{
		service:  service,
		folderID: folderID,
	}, nil
}

// tokenFromFile reads a token from a file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// UploadFile uploads a file and returns its public direct-download URL
func (g *GDriveService) UploadFile(file io.Reader, filename, mimeType string) (string, error) {
	driveFile := &drive.File{
		Name:    filename,
		Parents: []string{g.folderID},
	}

	createdFile, err := g.service.Files.Create(driveFile).
		Media(file).
		Fields("id, webViewLink, webContentLink").
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	permission := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}
	if _, err := g.service.Permissions.Create(createdFile.Id, permission).Do(); err != nil {
		return "", fmt.Errorf("failed to set file permissions: %w", err)
	}

	return fmt.Sprintf("https://drive.google.com/uc?id=%s", createdFile.Id), nil
}

// DeleteFile deletes a file from Drive by its ID
func (g *GDriveService) DeleteFile(fileID string) error {
	if err := g.service.Files.Delete(fileID).Do(); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
