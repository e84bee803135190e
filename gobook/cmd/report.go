package cmd

import (
	"emperror.dev/errors"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/ocfl-archive/gobook/pkg/registry"
	"github.com/ocfl-archive/gobook/pkg/resource"
	"io"
	"os"
)

var reportKinds = []resource.Kind{
	resource.KindMarkup,
	resource.KindImage,
	resource.KindStylesheet,
	resource.KindStyleTemplate,
	resource.KindFont,
	resource.KindMisc,
	resource.KindManifest,
	resource.KindNavigation,
}

func fileSize(res resource.Resource) uint64 {
	fi, err := os.Stat(res.Path())
	if err != nil {
		return 0
	}
	return uint64(fi.Size())
}

// writeReport prints the requested sections about the content of reg.
func writeReport(w io.Writer, reg *registry.Registry, infos []string) error {
	for _, info := range infos {
		var err error
		switch info {
		case "kinds":
			err = reportKindsSection(w, reg)
		case "files":
			err = reportFiles(w, reg)
		case "digests":
			err = reportDigests(w, reg)
		case "spine":
			err = reportSpine(w, reg)
		case "orphans":
			err = reportOrphans(w, reg)
		default:
			err = errors.Errorf("unknown info '%s'", info)
		}
		if err != nil {
			return errors.Wrapf(err, "cannot report %s", info)
		}
	}
	return nil
}

func reportKindsSection(w io.Writer, reg *registry.Registry) error {
	fmt.Fprintf(w, "[kinds]\n")
	var total uint64
	for _, kind := range reportKinds {
		list := reg.ResourcesOfKind(kind, false)
		var size uint64
		for _, res := range list {
			size += fileSize(res)
		}
		total += size
		fmt.Fprintf(w, "  %-15s %5d %10s\n", kind, len(list), humanize.Bytes(size))
	}
	fmt.Fprintf(w, "  %-15s %5d %10s\n", "total", reg.Len(), humanize.Bytes(total))
	fmt.Fprintf(w, "  highest reading order: %d\n\n", reg.HighestReadingOrder())
	return nil
}

func reportFiles(w io.Writer, reg *registry.Registry) error {
	fmt.Fprintf(w, "[files]\n")
	for _, item := range reg.Manifest().Items() {
		res, err := reg.ByIdentifier(item.ID)
		if err != nil {
			// removed in the meantime
			continue
		}
		fmt.Fprintf(w, "  %-40s %-35s %10s\n", item.Href, item.MediaType, humanize.Bytes(fileSize(res)))
	}
	fmt.Fprintln(w)
	return nil
}

func reportDigests(w io.Writer, reg *registry.Registry) error {
	fmt.Fprintf(w, "[digests]\n")
	for _, item := range reg.Manifest().Items() {
		res, err := reg.ByIdentifier(item.ID)
		if err != nil {
			continue
		}
		digest := res.Digest()
		if digest == "" {
			digest = "-"
		}
		fmt.Fprintf(w, "  %s  %s\n", digest, item.Href)
	}
	fmt.Fprintln(w)
	return nil
}

func reportSpine(w io.Writer, reg *registry.Registry) error {
	fmt.Fprintf(w, "[spine]\n")
	for _, id := range reg.Manifest().Spine() {
		res, err := reg.ByIdentifier(id)
		if err != nil {
			continue
		}
		order := registry.NoReadingOrder
		if o, ok := res.(resource.Ordered); ok {
			order = o.ReadingOrder()
		}
		fmt.Fprintf(w, "  %3d %s\n", order, res.Filename())
	}
	fmt.Fprintln(w)
	return nil
}

func reportOrphans(w io.Writer, reg *registry.Registry) error {
	orphans, err := reg.Orphans()
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintf(w, "[orphans]\n")
	for _, orphan := range orphans {
		fmt.Fprintf(w, "  %s\n", orphan)
	}
	fmt.Fprintln(w)
	return nil
}
