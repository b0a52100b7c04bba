package cmd

import "github.com/spf13/cobra"

// searchCmd is a discoverability alias of suggest: same arguments, same
// behavior, different verb for users who reach for "search" first.
var searchCmd = &cobra.Command{
	Use:   "search <source> <query>",
	Short: "Alias of suggest",
	Long: `Search is an alias of "suggest": fuzzy-searches an inventory's
reference strings using token-set-ratio matching. See "objinv suggest
--help" for the full description of its flags and output.`,
	Example: `  objinv search objects.inv "Attribute"`,
	Args:    cobra.ExactArgs(2),
	RunE:    runSuggest,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
