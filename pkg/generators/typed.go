package generators

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/conduit-lang/fixtures/pkg/errors"
	"github.com/conduit-lang/fixtures/pkg/generator"
)

// Epoch is the default time.Time. Random times fall within a year of it.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewTime returns the time.Time generator.
func NewTime() *generator.Typed[time.Time] {
	return generator.NewTyped(
		func(*generator.Env) (time.Time, error) { return Epoch, nil },
		func(env *generator.Env) (time.Time, error) {
			offset := time.Duration(env.Rand.Int64N(int64(365 * 24 * time.Hour)))
			return Epoch.Add(offset).Truncate(time.Second), nil
		},
	)
}

// NewUUID returns the uuid.UUID generator. Random UUIDs are version 4 and
// drawn from the environment's source, so seeded runs repeat.
func NewUUID() *generator.Typed[uuid.UUID] {
	return generator.NewTyped(
		func(*generator.Env) (uuid.UUID, error) { return uuid.Nil, nil },
		func(env *generator.Env) (uuid.UUID, error) {
			id, err := uuid.NewRandomFromReader(randReader{env.Rand})
			if err != nil {
				return uuid.Nil, errors.GenerationFailure(err, "random uuid")
			}
			return id, nil
		},
	)
}

// randReader adapts a rand.Rand to io.Reader.
type randReader struct {
	r *rand.Rand
}

func (rr randReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(rr.r.Uint32())
	}
	return len(p), nil
}
