package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func schemaDest(dirID int64) string {
	return fmt.Sprintf("/directories/%d/schema", dirID)
}

// NewSchemaCmd creates the schema command group
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Browse the directory schema",
	}
	cmd.PersistentFlags().String("directory", "", "Directory id (required)")

	classes := &cobra.Command{
		Use:   "object-classes [name]",
		Short: "List object classes, or show one by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, schemaDest(dirID), func(ctx context.Context) error {
				if len(args) == 1 {
					class, err := app.Client.GetObjectClass(ctx, dirID, args[0])
					if err != nil {
						return err
					}
					return printJSON(class)
				}
				list, err := app.Client.ListObjectClasses(ctx, dirID)
				if err != nil {
					return err
				}
				for _, class := range list {
					kind := "auxiliary"
					if class.Structural {
						kind = "structural"
					}
					fmt.Printf("%-28s %-12s must=%s\n", class.Name, kind, strings.Join(class.Must, ","))
				}
				return nil
			})
		},
	}

	attrs := &cobra.Command{
		Use:   "attribute-types [name]",
		Short: "List attribute types, or show one by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			dirID, err := directoryFlag(cmd)
			if err != nil {
				return err
			}
			return navigate(cmd.Context(), app, schemaDest(dirID), func(ctx context.Context) error {
				if len(args) == 1 {
					attr, err := app.Client.GetAttributeType(ctx, dirID, args[0])
					if err != nil {
						return err
					}
					return printJSON(attr)
				}
				list, err := app.Client.ListAttributeTypes(ctx, dirID)
				if err != nil {
					return err
				}
				for _, attr := range list {
					multiplicity := "multi"
					if attr.SingleValue {
						multiplicity = "single"
					}
					fmt.Printf("%-28s %-8s %s\n", attr.Name, multiplicity, attr.OID)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(classes, attrs)
	return cmd
}
