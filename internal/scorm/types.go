package scorm

import (
	"errors"
	"fmt"
	"strings"
)

// Version selects the SCORM edition a package targets.
type Version string

const (
	Version12   Version = "1.2"
	Version2004 Version = "2004"
)

// PackageType selects how the embedded content is presented.
type PackageType string

const (
	PackageIframeWithCode PackageType = "iframe-with-code"
	PackageIframeOnly     PackageType = "iframe-only"
	// PackageYouTube is reserved and not generated.
	PackageYouTube PackageType = "youtube"
)

var (
	ErrUnknownVersion      = errors.New("unknown scorm version")
	ErrUnknownPackageType  = errors.New("unknown package type")
	ErrReservedPackageType = errors.New("package type is reserved")
	ErrMissingField        = errors.New("required field is empty")
)

// Display defaults applied when the corresponding config field is empty.
const (
	DefaultTitle           = "SCORM Module"
	DefaultDuration12      = "0:30"
	DefaultDuration2004    = "PT30M"
	DefaultDescription     = "SCORM content generated with scormpack"
	DefaultHeaderBgColor   = "#f0f0f0"
	DefaultHeaderTextColor = "#000000"
	DefaultButtonBgColor   = "#1a57d1"
	DefaultButtonTextColor = "#ffffff"
	DefaultButtonText      = "Validate"
	DefaultCodePrompt      = "Please enter the code given at the end of the activity:"
	DefaultAlertRight      = "Congratulations!"
	DefaultAlertWrong      = "Incorrect code. Please try again."
	DefaultEndMessage      = "# Module completed\n\nCongratulations, you have completed this module."
	DefaultArchiveName     = "scorm-package"
)

// PackageConfig is the single input of the generation pipeline. It is
// passed by value and never modified by the builders.
type PackageConfig struct {
	ScormVersion    Version     `json:"scormVersion" yaml:"scorm_version" koanf:"scorm_version"`
	Title           string      `json:"title" yaml:"title" koanf:"title"`
	Description     string      `json:"description" yaml:"description" koanf:"description"`
	Duration        string      `json:"duration" yaml:"duration" koanf:"duration"`
	PackageType     PackageType `json:"packageType" yaml:"package_type" koanf:"package_type"`
	EmbeddedContent string      `json:"embeddedContent" yaml:"embedded_content" koanf:"embedded_content"`

	CodePromptMessage string `json:"codePromptMessage" yaml:"code_prompt_message" koanf:"code_prompt_message"`
	CompletionCode    string `json:"completionCode" yaml:"completion_code" koanf:"completion_code"`
	AlertMessageRight string `json:"alertMessageRight" yaml:"alert_message_right" koanf:"alert_message_right"`
	AlertMessageWrong string `json:"alertMessageWrong" yaml:"alert_message_wrong" koanf:"alert_message_wrong"`
	EndMessage        string `json:"endMessage" yaml:"end_message" koanf:"end_message"`

	Logo            string `json:"logo" yaml:"logo" koanf:"logo"`
	HeaderBgColor   string `json:"headerBgColor" yaml:"header_bg_color" koanf:"header_bg_color"`
	HeaderTextColor string `json:"headerTextColor" yaml:"header_text_color" koanf:"header_text_color"`
	ButtonBgColor   string `json:"buttonBgColor" yaml:"button_bg_color" koanf:"button_bg_color"`
	ButtonTextColor string `json:"buttonTextColor" yaml:"button_text_color" koanf:"button_text_color"`
	ButtonText      string `json:"buttonText" yaml:"button_text" koanf:"button_text"`
}

// ParseVersion maps a textual version onto a Version. The empty string
// selects SCORM 1.2.
func ParseVersion(s string) (Version, error) {
	switch Version(strings.TrimSpace(s)) {
	case "", Version12:
		return Version12, nil
	case Version2004:
		return Version2004, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
}

// ParsePackageType maps a textual package type onto a PackageType. The
// empty string selects the gated variant.
func ParsePackageType(s string) (PackageType, error) {
	switch PackageType(strings.TrimSpace(s)) {
	case "", PackageIframeWithCode:
		return PackageIframeWithCode, nil
	case PackageIframeOnly:
		return PackageIframeOnly, nil
	case PackageYouTube:
		return "", fmt.Errorf("%w: %q", ErrReservedPackageType, s)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPackageType, s)
	}
}

// Version returns the effective SCORM version. Unknown values fall back to
// 1.2; Validate reports them.
func (c PackageConfig) Version() Version {
	if c.ScormVersion == Version2004 {
		return Version2004
	}
	return Version12
}

// Type returns the effective package type.
func (c PackageConfig) Type() PackageType {
	if c.PackageType == PackageIframeOnly {
		return PackageIframeOnly
	}
	return PackageIframeWithCode
}

// Gated reports whether the page carries the completion-code gate.
func (c PackageConfig) Gated() bool {
	return c.Type() == PackageIframeWithCode
}

// DisplayTitle returns the title or its default.
func (c PackageConfig) DisplayTitle() string {
	return orDefault(c.Title, DefaultTitle)
}

// FieldError describes a single invalid config field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Validate performs the checks callers run before handing a config to the
// pipeline. The builders themselves never call it.
func (c PackageConfig) Validate() error {
	var errs []error

	if _, err := ParseVersion(string(c.ScormVersion)); err != nil {
		errs = append(errs, &FieldError{Field: "scormVersion", Err: err})
	}
	pt, err := ParsePackageType(string(c.PackageType))
	if err != nil {
		errs = append(errs, &FieldError{Field: "packageType", Err: err})
	}
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, &FieldError{Field: "title", Err: ErrMissingField})
	}
	if strings.TrimSpace(c.EmbeddedContent) == "" {
		errs = append(errs, &FieldError{Field: "embeddedContent", Err: ErrMissingField})
	}
	if pt == PackageIframeWithCode && strings.TrimSpace(c.CompletionCode) == "" {
		errs = append(errs, &FieldError{Field: "completionCode", Err: ErrMissingField})
	}

	return errors.Join(errs...)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
