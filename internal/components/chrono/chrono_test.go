package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImplLocation(t *testing.T) {
	clock, err := NewStandardImpl("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "America/Sao_Paulo", clock.Location().String())
	require.Equal(t, clock.Location(), clock.Now().Location())
}

func TestStandardImplUnknownZone(t *testing.T) {
	_, err := NewStandardImpl("Mars/Olympus_Mons")
	require.Error(t, err)
}

func TestFixedImpl(t *testing.T) {
	instant := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	clock := FixedImpl{Time: instant}
	require.Equal(t, instant, clock.Now())
	require.Equal(t, time.UTC, clock.Location())
}

func TestValidateSpec(t *testing.T) {
	require.NoError(t, ValidateSpec("0 8,14 * * 1-5"))
	require.NoError(t, ValidateSpec("@hourly"))
	require.Error(t, ValidateSpec("every day at noon"))
}
