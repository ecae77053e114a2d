// Package merge combines the archives contributed by several mods into one
// archive per original name.
//
// At install time every archive is renamed to a random name and the mod
// record remembers the original basename. At deploy time the Engine looks
// the renamed file up in that dictionary, unpacks the current merged archive
// and the incoming one into a scratch directory, and packs the union back
// over the target. Entries from the later merge win on name collisions.
//
// The target is only replaced by the final rename, so a merge that fails
// part way leaves the previously merged archive as it was.
package merge
