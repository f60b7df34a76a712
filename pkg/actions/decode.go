package actions

import (
	"github.com/lf-/polkadots/pkg/errors"
)

// Descriptor is the raw shape of one action entry in a configuration file.
// Fields not used by a given action type are simply ignored, matching the
// permissive keyword handling of older configs.
type Descriptor struct {
	Type        string   `koanf:"type" json:"type" toml:"type"`
	Source      string   `koanf:"source" json:"source,omitempty" toml:"source,omitempty"`
	Sources     []string `koanf:"sources" json:"sources,omitempty" toml:"sources,omitempty"`
	Destination string   `koanf:"destination" json:"destination,omitempty" toml:"destination,omitempty"`
	Directory   string   `koanf:"directory" json:"directory,omitempty" toml:"directory,omitempty"`
	DirMode     bool     `koanf:"dir_mode" json:"dir_mode,omitempty" toml:"dir_mode,omitempty"`
	Overwrite   bool     `koanf:"overwrite" json:"overwrite,omitempty" toml:"overwrite,omitempty"`
	Parents     *bool    `koanf:"parents" json:"parents,omitempty" toml:"parents,omitempty"`
}

// Decode turns a Descriptor into a concrete Action. Unknown type tags are
// an error: the action might not be implemented.
func Decode(d Descriptor) (Action, error) {
	switch d.Type {
	case KindSymlink:
		if d.Source == "" || d.Destination == "" {
			return nil, errors.Newf(errors.ErrActionInvalid,
				"%s requires source and destination", KindSymlink)
		}
		return &SymlinkAction{
			Source:      d.Source,
			Destination: d.Destination,
			DirMode:     d.DirMode,
		}, nil

	case KindCopy:
		if d.Source == "" || d.Destination == "" {
			return nil, errors.Newf(errors.ErrActionInvalid,
				"%s requires source and destination", KindCopy)
		}
		return &CopyAction{
			Source:      d.Source,
			Destination: d.Destination,
			DirMode:     d.DirMode,
			Overwrite:   d.Overwrite,
		}, nil

	case KindMkdir:
		if d.Directory == "" {
			return nil, errors.Newf(errors.ErrActionInvalid,
				"%s requires directory", KindMkdir)
		}
		parents := true
		if d.Parents != nil {
			parents = *d.Parents
		}
		return &MkdirAction{
			Directory: d.Directory,
			Parents:   parents,
		}, nil

	case KindCat:
		if d.Destination == "" || len(d.Sources) == 0 {
			return nil, errors.Newf(errors.ErrActionInvalid,
				"%s requires destination and at least one source", KindCat)
		}
		return &CatAction{
			Sources:     d.Sources,
			Destination: d.Destination,
		}, nil

	case "":
		return nil, errors.New(errors.ErrActionInvalid, "action is missing a type")

	default:
		return nil, errors.Newf(errors.ErrActionInvalid,
			"unknown action type %q, it might not be implemented", d.Type)
	}
}

// DecodeAll decodes a list of descriptors, stopping at the first invalid one
func DecodeAll(descriptors []Descriptor) ([]Action, error) {
	decoded := make([]Action, 0, len(descriptors))
	for i, d := range descriptors {
		action, err := Decode(d)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"invalid action at index %d", i)
		}
		decoded = append(decoded, action)
	}
	return decoded, nil
}
