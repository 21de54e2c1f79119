package resource

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/nathoo/pakfs/archive"
	"github.com/nathoo/pakfs/logger"
	"github.com/nathoo/pakfs/types"
)

// kyra1TalkiePaks is the required base data of the CD release of the first
// Kyrandia. Any of these missing means a broken install, so they load as
// protected and a miss is fatal.
var kyra1TalkiePaks = []string{
	"ADL.PAK", "CHAPTER1.VRM", "COL.PAK", "FINALE.PAK",
	"INTRO1.PAK", "INTRO2.PAK", "INTRO3.PAK", "INTRO4.PAK",
	"MISC.PAK", "SND.PAK", "STARTUP.PAK", "XMI.PAK",
	"CAVE.APK", "DRAGON1.APK", "DRAGON2.APK", "LAGOON.APK",
}

// Reset puts the search set into the canonical starting state for the
// configured title: previously scanned archives are retracted, the normal
// package set is cleared, and the title's base packages are activated
// again. Protected packages loaded by an earlier Reset stay active.
func (r *Resource) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.scanned {
		r.files.Remove(n)
	}
	r.scanned = nil
	r.unloadAllPakFiles()

	if ok, err := afero.DirExists(r.fs, r.gamePath); err != nil || !ok {
		return fmt.Errorf("%w: game path %s is not a directory", ErrNotFound, r.gamePath)
	}

	switch r.flags.Game {
	case types.GameKyra1, types.GameEOB1:
		return r.resetKyra1Family()
	case types.GameKyra2:
		return r.resetKyra2()
	case types.GameKyra3:
		return r.resetKyra3()
	case types.GameLOL:
		return r.resetLOL()
	case types.GameEOB2:
		// Everything lives as loose files or is loaded on demand.
		return nil
	default:
		return fmt.Errorf("resource: unhandled game %s", r.flags.Game)
	}
}

func (r *Resource) resetKyra1Family() error {
	if r.flags.Game == types.GameKyra1 && r.flags.Platform == types.PlatformMacintosh && r.flags.UseInstaller {
		return r.resetKyra1MacInstaller()
	}

	switch {
	case r.flags.IsDemo && !r.flags.IsTalkie:
		// The demo ships loose files only.
		return nil
	case r.flags.IsTalkie && !r.flags.IsDemo:
		return r.loadProtectedFiles(kyra1TalkiePaks)
	default:
		return r.scanGameDir()
	}
}

// resetKyra1MacInstaller assembles the split installer and activates both
// the installer itself and every data package found inside it.
func (r *Resource) resetKyra1MacInstaller() error {
	inst, err := r.loadSplitInstaller("WESTWOOD")
	if err != nil {
		return err
	}
	r.addScanned("installer", inst, prioInstaller)

	for _, m := range inst.List(nil, "*.PAK") {
		name := types.Canonical(m.Name())
		pak, err := r.loadArchive(name, m)
		if err != nil {
			return fmt.Errorf("installer package %s: %w", m.Name(), err)
		}
		r.addScanned(string(name), pak, prioArchives)
	}
	return nil
}

// scanGameDir indexes the game directory fresh and activates every data
// package found in it. Unrecognized containers are skipped with a warning;
// unreadable ones abort. Floppy releases have no package manifest, so the
// directory contents are the manifest.
func (r *Resource) scanGameDir() error {
	dir, err := archive.NewDir(r.fs, r.gamePath, 0)
	if err != nil {
		return err
	}
	if r.flags.Platform == types.PlatformMacintosh {
		if _, err := dir.AddSubDirectory("runtime", 0); err != nil {
			return err
		}
	}

	members := dir.List(nil, "*.PAK")
	members = dir.List(members, "*.APK")

	for _, m := range members {
		name := types.Canonical(m.Name())
		if r.skipScan(name) {
			continue
		}
		arc, err := r.loadArchive(name, m)
		if err != nil {
			if errors.Is(err, ErrFormatUnknown) {
				logger.Warn("unrecognized container skipped", "file", name)
				continue
			}
			return fmt.Errorf("scanning %s: %w", name, err)
		}
		r.addScanned(string(name), arc, r.scanPriority(arc))
	}
	return nil
}

// skipScan filters directory scan hits that must never be mounted: music
// data misusing the package extension, and the script package of every
// language but the configured one.
func (r *Resource) skipScan(name types.CanonicalName) bool {
	switch name {
	case "TWMUSIC.PAK", "EYE.PAK":
		return true
	case "JMC.PAK":
		return r.flags.Lang != types.LangJapanese
	case "EMC.PAK":
		return r.flags.Lang == types.LangJapanese
	}
	return false
}

// addScanned activates an archive directly in the root set and remembers
// the layer name so the next Reset can retract it.
func (r *Resource) addScanned(layerName string, arc archive.Archive, priority int) {
	r.files.Add(layerName, arc, priority, false)
	r.scanned = append(r.scanned, layerName)
}

func (r *Resource) resetKyra2() error {
	if r.flags.UseInstaller {
		if err := r.loadInstallerArchive("WESTWOOD", "%03d", 6); err != nil {
			return err
		}
	}
	if r.flags.IsDemo && !r.flags.IsTalkie {
		return r.loadPakFile("GENERAL.PAK")
	}
	if err := r.loadPakFile("INTROGEN.PAK"); err != nil {
		return err
	}
	return r.loadPakFile("OTHER.PAK")
}

func (r *Resource) resetKyra3() error {
	if err := r.loadPakFile("WESTWOOD.001"); err != nil {
		return err
	}
	return r.loadFileList("FILEDATA.FDT")
}

func (r *Resource) resetLOL() error {
	if r.flags.UseInstaller {
		if err := r.loadInstallerArchive("WESTWOOD", "%d", 0); err != nil {
			return err
		}
	}
	if !r.flags.IsTalkie && !r.flags.IsDemo {
		return r.loadProtectedFiles([]string{"GENERAL.PAK"})
	}
	return nil
}
