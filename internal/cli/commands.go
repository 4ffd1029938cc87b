package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewGlobCommand expands a glob pattern and prints one match per line.
func NewGlobCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "glob PATTERN",
		Short: "Expand a glob pattern against the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newDriver()
			if err != nil {
				return err
			}

			for match, err := range driver.Glob(cmd.Context(), args[0]) {
				if err != nil {
					return fmt.Errorf("glob %s: %w", args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), match)
			}
			return nil
		},
	}
}

// NewMkdirCommand materializes a directory path, parents included.
func NewMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir PATH",
		Short: "Create a directory and any missing parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newDriver()
			if err != nil {
				return err
			}

			if !driver.EnsureDirectory(cmd.Context(), args[0]) {
				return fmt.Errorf("mkdir %s failed", args[0])
			}
			return nil
		},
	}
}

// NewCpCommand copies a single object.
func NewCpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cp SRC DST",
		Short: "Copy an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newDriver()
			if err != nil {
				return err
			}

			if !driver.Copy(cmd.Context(), args[0], args[1]) {
				return fmt.Errorf("cp %s %s failed", args[0], args[1])
			}
			return nil
		},
	}
}

// NewMvCommand moves an object or a directory subtree.
func NewMvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mv SRC DST",
		Short: "Move an object or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newDriver()
			if err != nil {
				return err
			}

			if !driver.Rename(cmd.Context(), args[0], args[1]) {
				return fmt.Errorf("mv %s %s failed", args[0], args[1])
			}
			return nil
		},
	}
}

// NewPutCommand uploads a local file through a write session.
func NewPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put FILE DST",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, err := newDriver()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			session := driver.BeginWrite(args[1])
			if _, err := session.Write(data); err != nil {
				return fmt.Errorf("buffer %s: %w", args[1], err)
			}

			size, err := session.Close(cmd.Context())
			if err != nil {
				return fmt.Errorf("upload %s: %w", args[1], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", session.Key(), size)
			return nil
		},
	}
}
