package input

import "github.com/matzehuels/disposition/pkg/core/omap"

// Merge overlays o onto base and returns a new diagram. Neither argument is
// modified.
//
// Every map takes the overlay value for keys present in both, keeping base key
// order and appending new overlay keys. A thing_hierarchy key present in both
// is replaced by the overlay's whole subtree. css is replaced only when the
// overlay's is non-empty.
func Merge(base, o *Diagram) *Diagram {
	out := &Diagram{
		Things:            omap.Merged(&base.Things, &o.Things),
		ThingCopyText:     omap.Merged(&base.ThingCopyText, &o.ThingCopyText),
		ThingHierarchy:    ThingHierarchy{omap.Merged(&base.ThingHierarchy.Map, &o.ThingHierarchy.Map)},
		ThingDependencies: omap.Merged(&base.ThingDependencies, &o.ThingDependencies),
		ThingInteractions: omap.Merged(&base.ThingInteractions, &o.ThingInteractions),
		Processes:         omap.Merged(&base.Processes, &o.Processes),
		Tags:              omap.Merged(&base.Tags, &o.Tags),
		TagThings:         omap.Merged(&base.TagThings, &o.TagThings),
		EntityDescs:       omap.Merged(&base.EntityDescs, &o.EntityDescs),
		EntityTooltips:    omap.Merged(&base.EntityTooltips, &o.EntityTooltips),
		EntityTypes:       omap.Merged(&base.EntityTypes, &o.EntityTypes),

		ThemeDefault:                 base.ThemeDefault.Merge(o.ThemeDefault),
		ThemeTypesStyles:             omap.Merged(&base.ThemeTypesStyles, &o.ThemeTypesStyles),
		ThemeThingDependenciesStyles: base.ThemeThingDependenciesStyles.Merge(o.ThemeThingDependenciesStyles),
		ThemeTagThingsFocus:          omap.Merged(&base.ThemeTagThingsFocus, &o.ThemeTagThingsFocus),

		CSS: base.CSS,
	}
	if o.CSS != "" {
		out.CSS = o.CSS
	}
	return out
}

// WithBase merges d onto the embedded base diagram.
func WithBase(d *Diagram) *Diagram {
	return Merge(Base(), d)
}
