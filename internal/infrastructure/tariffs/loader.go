package tariffs

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"weld_quote/internal/domain/pricing"
)

// Load reads a YAML tariff file and overlays it on the built-in tariff.
// Keys missing from the file keep their default values; map entries are merged.
// An empty path returns the built-in tariff.
func Load(path string) (pricing.Tariff, error) {
	t := pricing.DefaultTariff()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return pricing.Tariff{}, fmt.Errorf("read tariff file: %w", err)
	}
	t, err = Parse(raw)
	if err != nil {
		return pricing.Tariff{}, fmt.Errorf("tariff file %s: %w", path, err)
	}
	log.Printf("[tariffs][loader] loaded path=%s version=%s", path, t.Version)
	return t, nil
}

// Parse overlays raw YAML on the built-in tariff and validates the result.
func Parse(raw []byte) (pricing.Tariff, error) {
	t := pricing.DefaultTariff()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return pricing.Tariff{}, fmt.Errorf("decode: %w", err)
	}
	if err := t.Validate(); err != nil {
		return pricing.Tariff{}, err
	}
	return t, nil
}
