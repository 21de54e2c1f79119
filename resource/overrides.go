package resource

import (
	"github.com/nathoo/pakfs/archive"
	"github.com/nathoo/pakfs/types"
)

// scanPriority returns the search priority a scanned archive should join
// the root set with.
//
// The Spanish release of the first Eye of the Beholder ships a broken
// loose ITEM.DAT; the good copy lives in a data package and must shadow
// the base directory. This is a one-off data correction for that exact
// release, not a general override mechanism.
func (r *Resource) scanPriority(arc archive.Archive) int {
	if r.flags.Game == types.GameEOB1 && r.flags.Lang == types.LangSpanish &&
		arc.Has("ITEM.DAT") {
		return prioOverride
	}
	return prioArchives
}
