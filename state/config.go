package state

import (
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/helpers"
	"github.com/temoto/till/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	LogDebug bool `hcl:"log_debug"`

	Register struct {
		// opening float, notes loaded into register at start
		Float NotesConfig `hcl:"float"`
	} `hcl:"register"`
}

// NotesConfig is note bundle in config, signed to report negative counts.
type NotesConfig struct {
	Twenty int `hcl:"twenty"`
	Ten    int `hcl:"ten"`
	Five   int `hcl:"five"`
	Two    int `hcl:"two"`
	One    int `hcl:"one"`
}

func (nc NotesConfig) Group() (*currency.NominalGroup, error) {
	counts := [...]int{nc.Twenty, nc.Ten, nc.Five, nc.Two, nc.One}
	ng := currency.NewGroup()
	for i, c := range counts {
		if c < 0 {
			return nil, errors.NotValidf("note=%s count=%d", currency.Denominations[i], c)
		}
		ng.MustAdd(currency.Denominations[i], uint(c))
	}
	if _, err := ng.TotalChecked(); err != nil {
		return nil, errors.NewNotValid(err, "notes total")
	}
	return ng, nil
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) Float() (*currency.NominalGroup, error) {
	ng, err := c.Register.Float.Group()
	return ng, errors.Annotate(err, "config register.float")
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.Errorf("code error ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if _, err := c.Float(); err != nil {
		errs = append(errs, err)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
