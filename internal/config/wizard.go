package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// RunWizard interactively authors a package definition and saves it to path.
func RunWizard(path string) (scorm.PackageConfig, error) {
	var pc scorm.PackageConfig

	fmt.Println("Let's describe your SCORM package.")
	fmt.Println()

	// 1. SCORM version.
	versionPrompt := promptui.Select{
		Label: "Select SCORM version",
		Items: []string{string(scorm.Version12), string(scorm.Version2004)},
	}
	_, versionStr, err := versionPrompt.Run()
	if err != nil {
		return pc, fmt.Errorf("version selection: %w", err)
	}
	pc.ScormVersion = scorm.Version(versionStr)

	// 2. Package type.
	typePrompt := promptui.Select{
		Label: "Select package type",
		Items: []string{
			"iframe-with-code: content plus a completion code gate",
			"iframe-only: content only",
		},
	}
	typeIdx, _, err := typePrompt.Run()
	if err != nil {
		return pc, fmt.Errorf("package type selection: %w", err)
	}
	pc.PackageType = []scorm.PackageType{scorm.PackageIframeWithCode, scorm.PackageIframeOnly}[typeIdx]

	// 3. Metadata.
	if pc.Title, err = ask("Title", "", required); err != nil {
		return pc, err
	}
	if pc.Description, err = ask("Description", "", nil); err != nil {
		return pc, err
	}
	defaultDuration := scorm.DefaultDuration12
	if pc.ScormVersion == scorm.Version2004 {
		defaultDuration = scorm.DefaultDuration2004
	}
	if pc.Duration, err = ask("Typical learning time", defaultDuration, nil); err != nil {
		return pc, err
	}

	// 4. Content.
	if pc.EmbeddedContent, err = ask("Content URL or HTML", "", required); err != nil {
		return pc, err
	}

	// 5. Completion gate.
	if pc.Gated() {
		if pc.CompletionCode, err = ask("Completion code", "", required); err != nil {
			return pc, err
		}
		if pc.CodePromptMessage, err = ask("Code prompt", scorm.DefaultCodePrompt, nil); err != nil {
			return pc, err
		}
		if pc.EndMessage, err = ask("End message (Markdown)", "", nil); err != nil {
			return pc, err
		}
		logoPath, err := ask("Logo image file (optional)", "", nil)
		if err != nil {
			return pc, err
		}
		if logoPath != "" {
			if pc.Logo, err = LogoDataURI(logoPath); err != nil {
				return pc, err
			}
		}
	}

	if err := SavePackage(path, pc); err != nil {
		return pc, fmt.Errorf("saving package: %w", err)
	}

	fmt.Printf("\nPackage definition saved to %s\n", path)
	return pc, nil
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(v), nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value is required")
	}
	return nil
}

// LogoDataURI reads an image file and encodes it as a data URI.
func LogoDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading logo: %w", err)
	}
	typ := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	if !strings.HasPrefix(typ, "image/") {
		return "", fmt.Errorf("logo %s is not an image", path)
	}
	return "data:" + typ + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
