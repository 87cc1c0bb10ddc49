package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/smith3v/impostor/pkg/db"
	"github.com/spf13/cobra"
)

func newWordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "word",
		Short: "List and edit words",
	}

	var listCategory uint
	list := &cobra.Command{
		Use:   "list",
		Short: "List words, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTEXT\tCATEGORY\tDIFFICULTY\tHINT")
			for _, word := range a.store.ListWords(cmd.Context()) {
				if listCategory != 0 && word.CategoryID != listCategory {
					continue
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", word.ID, word.Text, word.CategoryName, word.Difficulty, word.Hint)
			}
			return w.Flush()
		},
	}
	list.Flags().UintVar(&listCategory, "category", 0, "only list words of this category id")

	var (
		addCategory   uint
		addDifficulty int
		addHint       string
	)
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a word to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			word, err := a.store.AddWord(cmd.Context(), args[0], addCategory, db.Difficulty(addDifficulty), addHint)
			if err != nil {
				return outcome(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added word %d (%s)\n", word.ID, word.Text)
			return nil
		},
	}
	add.Flags().UintVar(&addCategory, "category", 0, "category id")
	add.Flags().IntVar(&addDifficulty, "difficulty", int(db.Easy), "1 easy, 2 medium, 3 hard")
	add.Flags().StringVar(&addHint, "hint", "", "comma separated hints shown to impostors")
	_ = add.MarkFlagRequired("category")

	var (
		newText       string
		newCategory   uint
		newDifficulty int
		newHint       string
	)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a word; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			word, err := a.store.GetWord(cmd.Context(), id)
			if err != nil {
				return outcome(err)
			}
			flags := cmd.Flags()
			if flags.Changed("text") {
				word.Text = newText
			}
			if flags.Changed("category") {
				word.CategoryID = newCategory
			}
			if flags.Changed("difficulty") {
				word.Difficulty = db.Difficulty(newDifficulty)
			}
			if flags.Changed("hint") {
				word.Hint = newHint
			}
			if err := a.store.UpdateWord(cmd.Context(), id, word.Text, word.CategoryID, word.Difficulty, word.Hint); err != nil {
				return outcome(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated word %d\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&newText, "text", "", "new text")
	update.Flags().UintVar(&newCategory, "category", 0, "new category id")
	update.Flags().IntVar(&newDifficulty, "difficulty", 0, "new difficulty (1-3)")
	update.Flags().StringVar(&newHint, "hint", "", "new comma separated hints")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteWord(cmd.Context(), id); err != nil {
				return outcome(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted word %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}
