// Package installer applies cataloged instructions to a mod's staging
// folder and builds the mod record the store persists.
//
// Copies run as one synthfs pipeline so a failing copy rolls back the ones
// already applied.
package installer
