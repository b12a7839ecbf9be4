package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	srcUC "github.com/Nike1016/selfoss/internal/usecase/source"
)

var errRejected = errors.New("source rejected")

// sourceFlags are the fields shared by add, edit and validate.
type sourceFlags struct {
	title  string
	spout  string
	params []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Source title")
	cmd.Flags().StringVar(&f.spout, "spout", "", "Spout name, see 'sourcectl spouts list'")
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "Spout parameter as key=value, repeatable")
}

func (f *sourceFlags) parseParams() (entity.Params, error) {
	params := make(entity.Params, 0, len(f.params))
	for _, kv := range f.params {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", kv)
		}
		params = params.SetString(k, v)
	}
	return params, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// rejected prints field errors and turns them into a command failure.
func (c *cli) rejected(err error) error {
	var fieldErrs entity.FieldErrors
	if errors.As(err, &fieldErrs) {
		c.printFieldErrors(fieldErrs)
		return errRejected
	}
	return err
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sources ordered by title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd.Context(), func(svc *srcUC.Service) error {
				views, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				return c.printSources(views)
			})
		},
	}
}

func (c *cli) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *srcUC.Service) error {
				view, err := svc.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return c.printSource(view)
			})
		},
	}
}

func (c *cli) newAddCmd() *cobra.Command {
	var f sourceFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a source",
		Example: `  sourcectl add --title "Go blog" --spout rss -p url=https://go.dev/blog/feed.atom
  sourcectl add --title Octocat --spout github -p owner=octocat -p repo=hello-world -p branch=main`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := f.parseParams()
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *srcUC.Service) error {
				id, err := svc.Create(cmd.Context(), srcUC.CreateInput{Title: f.title, Spout: f.spout, Params: params})
				if err != nil {
					return c.rejected(err)
				}
				if c.jsonOutput() {
					return c.printJSON(map[string]int64{"id": id})
				}
				_, _ = fmt.Fprintf(c.out, "source %d added\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) newEditCmd() *cobra.Command {
	var f sourceFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace title, spout and params of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			params, err := f.parseParams()
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *srcUC.Service) error {
				err := svc.Update(cmd.Context(), srcUC.UpdateInput{ID: id, Title: f.title, Spout: f.spout, Params: params})
				if err != nil {
					return c.rejected(err)
				}
				_, _ = fmt.Fprintf(c.out, "source %d updated\n", id)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a source and all of its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *srcUC.Service) error {
				if err := svc.Delete(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(c.out, "source %d deleted\n", id)
				return nil
			})
		},
	}
}

func (c *cli) newSetErrorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-error <id> [message]",
		Short: "Record the last fetch error; without a message the error is cleared",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var message string
			if len(args) == 2 {
				message = args[1]
			}
			return c.withService(cmd.Context(), func(svc *srcUC.Service) error {
				return svc.SetError(cmd.Context(), id, message)
			})
		},
	}
}

func (c *cli) newValidateCmd() *cobra.Command {
	var f sourceFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a source against its spout schema without storing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := f.parseParams()
			if err != nil {
				return err
			}
			reg, err := c.registry()
			if err != nil {
				return err
			}
			svc := &srcUC.Service{Spouts: reg}
			if errs := svc.Validate(f.title, f.spout, params); len(errs) > 0 {
				c.printFieldErrors(errs)
				return errRejected
			}
			_, _ = fmt.Fprintln(c.out, "ok")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
