package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "List and edit categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories with their word counts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tICON\tWORDS\tCUSTOM")
			for _, c := range a.store.ListCategories(cmd.Context()) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\n", c.ID, c.Name, c.Icon, c.WordCount, c.IsCustom)
			}
			return w.Flush()
		},
	}

	var icon string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := a.store.CreateCategory(cmd.Context(), args[0], icon)
			if err != nil {
				return outcome(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created category %d (%s)\n", category.ID, category.Name)
			return nil
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "icon name, defaults to game.default_icon")

	var newIcon string
	update := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a category and set its icon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("icon") {
				current, err := a.store.GetCategory(cmd.Context(), id)
				if err != nil {
					return outcome(err)
				}
				newIcon = current.Icon
			}
			if err := a.store.UpdateCategory(cmd.Context(), id, args[1], newIcon); err != nil {
				return outcome(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated category %d\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&newIcon, "icon", "", "new icon name")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category and every word in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteCategory(cmd.Context(), id); err != nil {
				return outcome(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted category %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}
