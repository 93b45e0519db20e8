package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conduit-lang/fixtures/pkg/extract"
	"github.com/conduit-lang/fixtures/pkg/generator"
	"github.com/conduit-lang/fixtures/pkg/params"
)

type marker struct{}

func TestProviders(t *testing.T) {
	unregisterAllForTest()
	t.Cleanup(unregisterAllForTest)

	zeta := generator.Constant("zeta")
	alpha := generator.Constant(42)

	RegisterGenerators("zeta", func() []generator.Generator { return []generator.Generator{zeta} })
	RegisterGenerators("alpha", func() []generator.Generator { return []generator.Generator{alpha} })

	assert.Equal(t, []string{"alpha", "zeta"}, GeneratorProviders())
	assert.Equal(t, []generator.Generator{alpha, zeta}, Generators())

	t.Run("providers are called on every enumeration", func(t *testing.T) {
		calls := 0
		RegisterExtractors("counted", func() []extract.Extractor {
			calls++
			return []extract.Extractor{extract.New(func(marker, params.Nullability) {})}
		})

		assert.Len(t, Extractors(), 1)
		assert.Len(t, Extractors(), 1)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []string{"counted"}, ExtractorProviders())
	})

	t.Run("duplicate names panic", func(t *testing.T) {
		assert.Panics(t, func() {
			RegisterGenerators("alpha", func() []generator.Generator { return nil })
		})
		assert.Panics(t, func() {
			RegisterExtractors("counted", func() []extract.Extractor { return nil })
		})
	})

	t.Run("nil providers panic", func(t *testing.T) {
		assert.Panics(t, func() { RegisterGenerators("nil", nil) })
		assert.Panics(t, func() { RegisterExtractors("nil", nil) })
	})
}
