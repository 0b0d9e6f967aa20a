package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vvka-141/netres/internal/logging"
	"github.com/vvka-141/netres/pkg/netres"
)

//go:embed all:templates
var templatesFS embed.FS

// Scaffolder writes starter configuration from embedded templates.
type Scaffolder struct {
	logger netres.Logger
}

// NewScaffolder creates a new Scaffolder. A nil logger discards output.
func NewScaffolder(logger netres.Logger) *Scaffolder {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Scaffolder{logger: logger}
}

// Init writes the files of templateName into targetPath.
// Existing files are left untouched unless force is set.
// Returns the relative paths of the files written.
func (s *Scaffolder) Init(projectName, templateName, targetPath string, force bool) ([]string, error) {
	templatePath := path.Join("templates", templateName)
	if _, err := templatesFS.ReadDir(templatePath); err != nil {
		return nil, fmt.Errorf("template %q not found: %w", templateName, netres.ErrInvalidConfig)
	}

	files, err := templateFiles(templatePath)
	if err != nil {
		return nil, err
	}

	if !force {
		for _, rel := range files {
			if _, err := os.Stat(filepath.Join(targetPath, rel)); err == nil {
				return nil, fmt.Errorf("%s already exists in %s (use --force to overwrite): %w", rel, targetPath, netres.ErrInvalidConfig)
			}
		}
	}

	if err := os.MkdirAll(targetPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	for _, rel := range files {
		content, err := templatesFS.ReadFile(path.Join(templatePath, rel))
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %s: %w", rel, err)
		}

		target := filepath.Join(targetPath, filepath.FromSlash(rel))
		s.logger.Verbose("Creating file: %s", target)
		if err := os.WriteFile(target, []byte(processTemplate(string(content), projectName)), 0644); err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", target, err)
		}
	}

	return files, nil
}

// templateFiles lists the files of a template, relative to its root.
func templateFiles(templatePath string) ([]string, error) {
	var files []string
	err := fs.WalkDir(templatesFS, templatePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, strings.TrimPrefix(p, templatePath+"/"))
		return nil
	})
	return files, err
}

func processTemplate(content, projectName string) string {
	return strings.ReplaceAll(content, "{{PROJECT_NAME}}", projectName)
}

// ListTemplates returns available template names
func ListTemplates() ([]string, error) {
	entries, err := templatesFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}

	return templates, nil
}
