package curation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/fusion"
	"gopkg.in/yaml.v3"
)

// Config controls a single curation call. The zero value is not valid;
// start from DefaultConfig.
type Config struct {
	Method core.Method `yaml:"method" validate:"oneof=hybrid semantic keyword"`

	// SemanticWeight and KeywordWeight must sum to 1.
	SemanticWeight float64 `yaml:"semantic_weight" validate:"gte=0,lte=1"`
	KeywordWeight  float64 `yaml:"keyword_weight" validate:"gte=0,lte=1"`

	ImportanceThreshold float64 `yaml:"importance_threshold" validate:"gte=0,lte=1"`
	TopKFallback        int     `yaml:"top_k_fallback" validate:"gte=0"`
	MaxImportant        int     `yaml:"max_important" validate:"gte=0"`

	KeywordBonus    float64 `yaml:"keyword_bonus" validate:"gte=0,lte=1"`
	KeywordBonusCap float64 `yaml:"keyword_bonus_cap" validate:"gte=0,lte=1"`

	StopWords      bool `yaml:"stop_words"`
	MinTokenLength int  `yaml:"min_token_length" validate:"gte=1"`

	EmbedTimeout    time.Duration `yaml:"embed_timeout" validate:"gte=0"`
	EmbedRetries    int           `yaml:"embed_retries" validate:"gte=0,lte=10"`
	EmbedRetryDelay time.Duration `yaml:"embed_retry_delay" validate:"gte=0"`
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() *Config {
	return &Config{
		Method:              core.MethodHybrid,
		SemanticWeight:      0.5,
		KeywordWeight:       0.5,
		ImportanceThreshold: 0.3,
		TopKFallback:        10,
		MaxImportant:        0,
		KeywordBonus:        0,
		KeywordBonusCap:     0.5,
		StopWords:           false,
		MinTokenLength:      1,
		EmbedTimeout:        10 * time.Second,
		EmbedRetries:        1,
		EmbedRetryDelay:     200 * time.Millisecond,
	}
}

const weightTolerance = 1e-9

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		cfg := sl.Current().Interface().(Config)
		if math.Abs(cfg.SemanticWeight+cfg.KeywordWeight-1) > weightTolerance {
			sl.ReportError(cfg.KeywordWeight, "keyword_weight", "KeywordWeight", "weightsum", "")
		}
	}, Config{})
	return v
}

// Validate checks field ranges and that the weights sum to 1.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = describe(fe)
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "weightsum":
		return "semantic_weight and keyword_weight must sum to 1"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s must satisfy %s=%s, got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}

// ParseConfig decodes YAML over the defaults and validates the result.
// Keys absent from data keep their default values.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

func (c *Config) fusionParams(method core.Method) fusion.Params {
	return fusion.Params{
		Method:              method,
		SemanticWeight:      c.SemanticWeight,
		KeywordWeight:       c.KeywordWeight,
		ImportanceThreshold: c.ImportanceThreshold,
		TopKFallback:        c.TopKFallback,
		MaxImportant:        c.MaxImportant,
		KeywordBonus:        c.KeywordBonus,
		KeywordBonusCap:     c.KeywordBonusCap,
	}
}
