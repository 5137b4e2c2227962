package ingestion

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinContextLength is the shortest extracted text worth sending for parsing.
// Anything shorter is replaced by a filename hint.
const MinContextLength = 20

// ResumeDocument is one resume file ready for AI parsing
type ResumeDocument struct {
	FileName string
	Path     string
	Text     string
}

// Context returns the text to send for parsing, falling back to the file
// name when extraction produced almost nothing.
func (d ResumeDocument) Context() string {
	if len(strings.TrimSpace(d.Text)) > MinContextLength {
		return d.Text
	}
	return fmt.Sprintf("Resume Filename: %s.", d.FileName)
}

// Excerpt returns at most n bytes of the text, cut on a rune boundary, for
// display on the candidate record
func (d ResumeDocument) Excerpt(n int) string {
	if len(d.Text) <= n {
		return d.Text
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(d.Text[cut]) {
		cut--
	}
	return d.Text[:cut] + "..."
}

// FileHandler manages resume files in the uploads directory
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// UploadsDir returns the directory resumes are read from
func (fh *FileHandler) UploadsDir() string {
	return fh.uploadsDir
}

// IsSupported reports whether the file has a resume extension we can read
func IsSupported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".pdf", ".doc", ".docx":
		return true
	default:
		return false
	}
}

// SaveUploadedFile saves an uploaded file to the uploads directory
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}

	filePath := filepath.Join(fh.uploadsDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// LoadDocument reads a resume file and extracts its text
func (fh *FileHandler) LoadDocument(filePath string) (ResumeDocument, error) {
	doc := ResumeDocument{FileName: filepath.Base(filePath), Path: filePath}
	if !IsSupported(filePath) {
		return doc, fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}

	if strings.EqualFold(filepath.Ext(filePath), ".txt") {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return doc, fmt.Errorf("failed to read file %s: %w", doc.FileName, err)
		}
		if IsBinaryData(string(content)) {
			return doc, fmt.Errorf("file %s looks binary", doc.FileName)
		}
		doc.Text = string(content)
		return doc, nil
	}

	text, err := ExtractText(filePath)
	if err != nil {
		return doc, err
	}
	doc.Text = text
	return doc, nil
}

// ListResumes returns the supported files in the uploads directory, sorted by name
func (fh *FileHandler) ListResumes() ([]string, error) {
	entries, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(fh.uploadsDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// RemoveFiles deletes processed resume files, logging rather than failing
// on files that are already gone
func (fh *FileHandler) RemoveFiles(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("warning: failed to remove %s: %v", path, err)
		}
	}
}
