package entity

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Dictionary maps form class names to entity names
type Dictionary struct {
	Entries map[string]string
	Logger  *logrus.Logger
}

// NewDictionary creates a dictionary from the given form class -> entity entries
func NewDictionary(entries map[string]string, logger *logrus.Logger) *Dictionary {
	d := &Dictionary{
		Entries: make(map[string]string, len(entries)),
		Logger:  logger,
	}
	for formClass, entityName := range entries {
		d.Entries[formClass] = strings.TrimSpace(entityName)
	}
	return d
}

// LoadDictionary reads FormClass=ENTITY lines from a dotenv-style file
func LoadDictionary(path string, logger *logrus.Logger) (*Dictionary, error) {
	entries, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read entity map %s: %w", path, err)
	}

	logger.Infof("Loaded %d form class mappings from %s", len(entries), path)
	return NewDictionary(entries, logger), nil
}

// FormClassToEntity returns the entity mapped to formClassName, or "" when there is none
func (d *Dictionary) FormClassToEntity(formClassName *string) string {
	if d == nil || formClassName == nil {
		return ""
	}

	entityName, ok := d.Entries[*formClassName]
	if !ok {
		return ""
	}

	if d.Logger != nil {
		d.Logger.Debugf("Form class %s maps to entity %s", *formClassName, entityName)
	}
	return entityName
}

// Len returns the number of mappings
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}
