package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/foundation/normalization"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

var collisionPolicyNormalizer = normalization.NewNormalizer(map[string]content.CollisionPolicy{
	"first":  content.CollisionFirstWins,
	"reject": content.CollisionReject,
}, content.CollisionFirstWins)

// ValidateConfig validates the configuration, normalizing enum fields in place.
func ValidateConfig(cfg *Config) error {
	validator := &configurationValidator{config: cfg}
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	for _, step := range []func() error{
		cv.validateContent,
		cv.validateServer,
		cv.validateMetrics,
		cv.validateNavigation,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	c := &cv.config.Content
	policy, err := collisionPolicyNormalizer.NormalizeWithError(string(c.Collisions))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryValidation, "invalid content.collisions").
			WithContext("value", string(c.Collisions)).Build()
	}
	c.Collisions = policy

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return derrors.ValidationError(fmt.Sprintf("content extension %q must start with a dot", ext)).
				WithContext("value", ext).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	if strings.TrimSpace(cv.config.Server.Address) == "" {
		return derrors.ValidationError("server.address must not be empty").Build()
	}
	return nil
}

// reservedPrefixes are route prefixes owned by the page server.
var reservedPrefixes = []string{content.RoutePrefix, "/api", "/healthz"}

func (cv *configurationValidator) validateMetrics() error {
	m := cv.config.Metrics
	if !m.Enabled {
		return nil
	}
	if !strings.HasPrefix(m.Path, "/") {
		return derrors.ValidationError(fmt.Sprintf("metrics.path %q must start with /", m.Path)).Build()
	}
	for _, p := range reservedPrefixes {
		if m.Path == p || strings.HasPrefix(m.Path, p+"/") {
			return derrors.ValidationError(fmt.Sprintf("metrics.path %q collides with the %s routes", m.Path, p)).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateNavigation() error {
	if err := nav.Validate(cv.config.Navigation); err != nil {
		return derrors.WrapError(err, derrors.CategoryValidation, "invalid navigation").Build()
	}
	return nil
}
