package utils

import (
	"io/ioutil"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var (
	bundle     *i18n.Bundle
	bundleOnce sync.Once
)

func defaultBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	})
	return bundle
}

// InitI18NBundle loads every yaml message file in dir, e.g. en.yaml or
// zh-TW.yaml. Messages missing from the files fall back to the English text
// compiled into the binary.
func InitI18NBundle(dir string) error {
	b := defaultBundle()
	if dir == "" {
		return nil
	}

	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		if _, err := b.LoadMessageFile(path.Join(dir, filepath.Base(f.Name()))); err != nil {
			return err
		}
	}
	return nil
}

func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(defaultBundle(), langs...)
}

// Localize renders msg for the localizer, using the compiled-in English text if
// no translation applies
func Localize(l *i18n.Localizer, msg *i18n.Message, data map[string]interface{}) string {
	if l == nil {
		l = NewLocalizer()
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil || s == "" {
		return msg.Other
	}
	return s
}
