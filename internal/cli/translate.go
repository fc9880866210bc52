package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gearbase/uitranslator/internal/classifier"
)

var translateElement string

func newTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate text...",
		Short: "Resolve texts into the target language",
		Long: `Resolve one or more texts through the cache, store, and provider
pipeline and print each translation.

With --element, each text first passes the UI-content heuristic for that
element kind (button, label, th, td, ...); content the heuristic rejects,
such as e-mail addresses or invoice numbers, is printed unchanged.

Examples:
  uitranslator translate "Save" "Cancel"
  uitranslator translate --lang fr "Hello"
  uitranslator translate --element td "INV-00231" "Pending approval"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTranslate,
	}

	cmd.Flags().StringVar(&translateElement, "element", "", "gate texts through the UI-content heuristic for this element kind")
	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	lang := a.resolveLang()

	var results []string
	if translateElement != "" {
		elCtx := classifier.ElementContext{Element: classifier.Element(translateElement)}
		results = make([]string, len(args))
		for i, text := range args {
			if results[i], err = a.service.TranslateVisible(ctx, text, elCtx, lang); err != nil {
				return err
			}
		}
	} else {
		if results, err = a.service.TranslateBatch(ctx, args, lang); err != nil {
			return err
		}
	}

	source := color.New(color.Faint)
	translated := color.New(color.FgGreen)
	for i, text := range args {
		fmt.Printf("%s %s %s\n", source.Sprint(text), color.CyanString("→"), translated.Sprint(results[i]))
	}
	return nil
}
