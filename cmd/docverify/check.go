package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNotValid = errors.New("number is not valid")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "check <aadhar|pan> <number>",
		Short:             "Validate a typed Aadhar or PAN number",
		Example:           "  docverify check aadhar \"2341 2341 2346\"\n  docverify check pan BWPPA3202G",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: validDocArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := documentArg(args[0])
			if err != nil {
				return err
			}
			res := v.FromManual(args[1])
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Valid {
				return errNotValid
			}
			return nil
		},
	}
}
