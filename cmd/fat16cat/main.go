// Command fat16cat is a thin external caller over the fat16 package
// (spec §1: command-line drivers are out of core scope, treated as a
// caller like any other). It supports listing the root directory,
// printing one file's contents, and reporting a file's metadata.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jstasiak/fat16"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fat16cat",
		Short: "fat16cat - inspect a FAT16 disk image",
	}

	root.AddCommand(newLsCommand(), newCatCommand(), newStatCommand())
	return root
}

func openVolume(imagePath string) (*fat16.BlockDevice, *fat16.Volume, error) {
	device, err := fat16.OpenBlockDevice(afero.NewOsFs(), imagePath)
	if err != nil {
		return nil, nil, err
	}

	volume, err := fat16.OpenVolume(device, 0)
	if err != nil {
		_ = device.Close()
		return nil, nil, err
	}

	return device, volume, nil
}

func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <image>",
		Short: "List the root directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, volume, err := openVolume(args[0])
			if err != nil {
				return err
			}
			defer device.Close()
			defer volume.Close()

			dir, err := fat16.OpenDir(volume, `\`)
			if err != nil {
				return err
			}
			defer dir.Close()

			var entry fat16.DirEntry
			for {
				status, err := dir.ReadEntry(&entry)
				if err != nil {
					return err
				}
				if status == 1 {
					break
				}

				kind := "file"
				if entry.IsDir {
					kind = "dir "
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %10s  %s\n", kind, humanize.Bytes(uint64(entry.Size)), entry.Name)
			}

			return nil
		},
	}
}

func newCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <image> <name>",
		Short: "Print one root-directory file's contents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, volume, err := openVolume(args[0])
			if err != nil {
				return err
			}
			defer device.Close()
			defer volume.Close()

			f, err := fat16.OpenFile(volume, args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			_, err = io.Copy(cmd.OutOrStdout(), f)
			return err
		},
	}
}

func newStatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <image> <name>",
		Short: "Print one root-directory file's metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, volume, err := openVolume(args[0])
			if err != nil {
				return err
			}
			defer device.Close()
			defer volume.Close()

			f, err := fat16.OpenFile(volume, args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:     %s\n", f.Name())
			fmt.Fprintf(out, "size:     %s (%d bytes)\n", humanize.Bytes(uint64(f.Size())), f.Size())
			return nil
		},
	}
}
