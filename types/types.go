// Package types defines the shared data structures for the pakfs resource
// layer. This package contains only type definitions and trivial helpers —
// no I/O, no format logic.
package types

import "strings"

// GameID identifies which supported title the resource layer serves.
// The active title decides which archives Reset loads, which skip rules
// apply, and which priority overrides are in effect.
type GameID int

const (
	GameNone GameID = iota
	GameKyra1
	GameKyra2
	GameKyra3
	GameEOB1
	GameEOB2
	GameLOL
)

func (g GameID) String() string {
	switch g {
	case GameKyra1:
		return "kyra1"
	case GameKyra2:
		return "kyra2"
	case GameKyra3:
		return "kyra3"
	case GameEOB1:
		return "eob1"
	case GameEOB2:
		return "eob2"
	case GameLOL:
		return "lol"
	default:
		return "none"
	}
}

// Platform is the target platform of the game data set. Amiga and SegaCD
// data is stored big-endian; everything else is little-endian.
type Platform int

const (
	PlatformDOS Platform = iota
	PlatformMacintosh
	PlatformAmiga
	PlatformFMTowns
	PlatformSegaCD
)

// BigEndian reports whether the platform's native data order is big-endian.
func (p Platform) BigEndian() bool {
	return p == PlatformAmiga || p == PlatformSegaCD
}

func (p Platform) String() string {
	switch p {
	case PlatformMacintosh:
		return "macintosh"
	case PlatformAmiga:
		return "amiga"
	case PlatformFMTowns:
		return "fmtowns"
	case PlatformSegaCD:
		return "segacd"
	default:
		return "dos"
	}
}

// Language selects localized data files (e.g. which script archive to skip).
type Language int

const (
	LangEnglish Language = iota
	LangFrench
	LangGerman
	LangSpanish
	LangItalian
	LangJapanese
)

// GameFlags describes the variant of the title being served. It mirrors the
// detection result handed to the engine and is treated as immutable.
type GameFlags struct {
	Game         GameID
	Platform     Platform
	Lang         Language
	IsDemo       bool
	IsTalkie     bool
	UseInstaller bool
}

// EndianMode selects the byte order of an endian-aware read stream.
type EndianMode int

const (
	// PlatformEndian derives the order from GameFlags.Platform.
	PlatformEndian EndianMode = iota
	ForceBE
	ForceLE
)

// CanonicalName is the uppercase, slash-normalized form of a file or archive
// name. It is the only key type used for cache and layer lookups, built once
// at insertion so case mismatches cannot creep in later.
type CanonicalName string

// Canonical normalizes a raw name. Backslashes become forward slashes and
// the result is uppercased.
func Canonical(name string) CanonicalName {
	name = strings.ReplaceAll(name, "\\", "/")
	return CanonicalName(strings.ToUpper(name))
}

func (c CanonicalName) String() string { return string(c) }
