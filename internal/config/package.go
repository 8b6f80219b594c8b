package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// LoadPackage reads a package definition from a YAML file, or from a JSON
// file using the camelCase field names of the web form. YAML scalars keep
// their literal text, so `completion_code: 0123` stays "0123".
func LoadPackage(path string) (scorm.PackageConfig, error) {
	var pc scorm.PackageConfig

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return pc, fmt.Errorf("reading package %s: %w", path, err)
		}
		if err := yamlv3.Unmarshal(data, &pc); err != nil {
			return pc, fmt.Errorf("decoding package %s: %w", path, err)
		}
		return pc, nil
	}

	k := koanf.New(".")
	// The YAML parser also accepts JSON documents.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return pc, fmt.Errorf("reading package %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", &pc, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return pc, fmt.Errorf("decoding package %s: %w", path, err)
	}
	return pc, nil
}

// SavePackage writes pc as YAML.
func SavePackage(path string, pc scorm.PackageConfig) error {
	data, err := yamlv3.Marshal(pc)
	if err != nil {
		return fmt.Errorf("marshalling package: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing package to %s: %w", path, err)
	}
	return nil
}
