package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", "", func(t testing.TB, c *Config) {
			assert.False(t, c.LogDebug)
			float, err := c.Float()
			require.NoError(t, err)
			assert.Equal(t, currency.Amount(0), float.Total())
		}, ""},

		{"float",
			`log_debug = true
register { float {
	twenty = 10
	ten = 10
	five = 10
	two = 10
	one = 10
} }`,
			func(t testing.TB, c *Config) {
				assert.True(t, c.LogDebug)
				float, err := c.Float()
				require.NoError(t, err)
				assert.Equal(t, currency.NewNotes(10, 10, 10, 10, 10), float)
			},
			"",
		},

		{"float-negative",
			`register { float { two = -1 } }`,
			nil,
			"config register.float: note=2 count=-1 not valid",
		},

		{"float-overflow",
			`register { float { twenty = 214748365 } }`,
			nil,
			"config register.float: notes total: Amount overflow",
		},

		{"syntax-error", `register {`, nil, "config unmarshal source=test-inline"},

		{"include-normalize",
			`include "./part-float" {}`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, uint(3), countOf(t, c, currency.Note5))
			},
			"",
		},

		{"include-optional", `include "missing" { optional = true }`, nil, ""},

		{"include-required", `include "missing" {}`, nil, "config required name=missing path=missing not found"},

		{"include-loop", `include "test-inline" {}`, nil, "config include loop: from=test-inline include=test-inline"},
	}
	mkCheck := func(c Case) func(*testing.T) {
		return func(t *testing.T) {
			log := log2.NewTest(t, log2.LDebug)
			fs := NewMockFullReader(map[string]string{
				"test-inline": c.input,
				"part-float":  `register { float { five = 3 } }`,
			})
			config, err := ReadConfig(log, fs, "test-inline")
			if c.expectErr == "" {
				require.NoError(t, err, errors.ErrorStack(err))
			} else {
				require.Error(t, err)
				require.Contains(t, err.Error(), c.expectErr)
				return
			}
			if c.check != nil {
				c.check(t, config)
			}
		}
	}
	for _, c := range cases {
		t.Run(c.name, mkCheck(c))
	}
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "till.hcl"), []byte(`
include "float.hcl" {}
log_debug = true
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "float.hcl"), []byte(`register { float { twenty = 2 one = 7 } }`), 0644))

	log := log2.NewTest(t, log2.LDebug)
	config := MustReadConfig(log, NewOsFullReader(), filepath.Join(dir, "till.hcl"))
	assert.True(t, config.LogDebug)
	float, err := config.Float()
	require.NoError(t, err)
	assert.Equal(t, currency.NewNotes(2, 0, 0, 0, 7), float)
}

func countOf(t testing.TB, c *Config, n currency.Nominal) uint {
	float, err := c.Float()
	require.NoError(t, err)
	count, err := float.Get(n)
	require.NoError(t, err)
	return count
}
