package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/nestview/pkg/cache"
	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/observability"
	"github.com/matzehuels/nestview/pkg/render/blocks"
	"github.com/matzehuels/nestview/pkg/render/nodelink"
)

// DefaultPadding is the canvas padding of rendered block diagrams.
const DefaultPadding = 10

// Render encodes d in format. SVG artifacts are cached next to the diagram
// they were rendered from.
func (r *Runner) Render(ctx context.Context, d *Diagram, format string) ([]byte, error) {
	if err := ValidateFormat(format, DiagramFormats); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return marshal(d)
	}
	return r.artifact(ctx, d.cacheKey, "blocks", format, func() ([]byte, error) {
		return blocks.RenderSVG(d.Blocks, blocks.Options{
			Title:       d.Options.Title(),
			LabelColors: d.Options.LabelColors,
			Padding:     DefaultPadding,
		}), nil
	})
}

// RenderRelations encodes rels in format. labelColors tints the label
// nodes of DOT and SVG output.
func (r *Runner) RenderRelations(ctx context.Context, rels *Relations, format string, labelColors map[string]string) ([]byte, error) {
	if err := ValidateFormat(format, RelationFormats); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return marshal(rels)
	}
	dot := nodelink.ToDOT(rels.Relations, nodelink.Options{LabelColors: labelColors})
	if format == FormatDOT {
		return []byte(dot), nil
	}

	source := rels.cacheKey
	if source != "" && len(labelColors) > 0 {
		colors, err := cache.HashJSON(labelColors)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash label colors")
		}
		source += ":" + colors
	}
	return r.artifact(ctx, source, "nodelink", format, func() ([]byte, error) {
		return nodelink.RenderSVG(ctx, dot)
	})
}

// artifact serves a rendered artifact from the cache or renders and stores
// it. An empty sourceKey disables caching.
func (r *Runner) artifact(ctx context.Context, sourceKey, kind, format string, render func() ([]byte, error)) ([]byte, error) {
	if sourceKey == "" {
		return render()
	}
	key := r.Keyer.ArtifactKey(sourceKey, cache.ArtifactKeyOpts{Format: format, Kind: kind})
	if !r.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "type", "artifact", "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	data, err := render()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s %s", kind, format)
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "type", "artifact", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, nil
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return append(data, '\n'), nil
}
