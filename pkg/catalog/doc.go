// Package catalog turns a mod package's file list into install instructions.
//
// Archive files are renamed to random unique names so archives from different
// mods never collide in the staging area; the mapping from each generated
// name back to the archive's original basename is recorded in a single
// pakDictionary attribute instruction. The merge engine later uses that
// dictionary to find which combined archive a generated file contributes to.
//
// When a package ships several archives with the same basename (variants),
// a VariantChooser picks the one to install. Cataloging has no filesystem
// side effects.
package catalog
