package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"roomrelay/bot"

	log "github.com/sirupsen/logrus"
)

// templateMarker matches the command list placeholder together with the
// indentation and <br> in front of it, which every emitted line repeats
var templateMarker = regexp.MustCompile(`( +?<br>)\{DATA_HERE\}`)

// ExpandTemplate replaces the first command list placeholder in content
func ExpandTemplate(content string, commands []string) string {
	loc := templateMarker.FindStringSubmatchIndex(content)
	if loc == nil {
		return content
	}
	lead := content[loc[2]:loc[3]]

	var b strings.Builder
	b.WriteString(lead + "Commands:\n" + lead)
	for _, command := range commands {
		b.WriteString("\n" + lead + command)
	}

	return content[:loc[0]] + b.String() + content[loc[1]:]
}

// WriteCommandDocs expands every template in templatesDir into outDir
func WriteCommandDocs(templatesDir, outDir string) error {
	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}

	commands := bot.CommandList()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		content, err := os.ReadFile(filepath.Join(templatesDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", entry.Name(), err)
		}

		out := filepath.Join(outDir, entry.Name())
		if err := os.WriteFile(out, []byte(ExpandTemplate(string(content), commands)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		log.Infof("Wrote command list to %s", out)
	}

	return nil
}
