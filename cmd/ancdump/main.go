package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ancore-lang/ancmod"
	"github.com/ancore-lang/ancmod/bytecode"
)

var (
	wantFunctions bool
	wantImports   bool
	wantExports   bool
	wantProperty  bool
)

func dumpProperty(img *ancmod.Image) {
	data, ok := img.Section(ancmod.SectionIDProperty)
	if !ok {
		return
	}
	prop, err := ancmod.DecodeProperty(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "property: %v\n", err)
		return
	}
	fmt.Printf("module:  %s\n", prop.ModuleName)
	fmt.Printf("version: %d.%d.%d\n", prop.Version.Major, prop.Version.Minor, prop.Version.Patch)
}

func dumpImports(img *ancmod.Image) {
	modules, ok := img.Section(ancmod.SectionIDImportModule)
	if !ok {
		return
	}
	entries, err := ancmod.ConvertImportModuleSection(modules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import_module: %v\n", err)
		return
	}
	for i, e := range entries {
		fmt.Printf("import_module[%d]: %s\n", i, e.Name)
	}
}

func dumpExports(img *ancmod.Image) {
	fns, ok := img.Section(ancmod.SectionIDExportFunction)
	if !ok {
		return
	}
	entries, err := ancmod.ConvertExportFunctionSection(fns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export_function: %v\n", err)
		return
	}
	for i, e := range entries {
		fmt.Printf("export_function[%d]: %s (%s)\n", i, e.Name, e.Visibility)
	}
}

func dumpFunctions(img *ancmod.Image) {
	data, ok := img.Section(ancmod.SectionIDFunction)
	if !ok {
		return
	}
	entries, err := ancmod.ConvertFunctionSection(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "function: %v\n", err)
		return
	}
	for i, e := range entries {
		fmt.Printf("function[%d]: type=%d locals=%d code_len=%d\n", i, e.TypeIndex, e.LocalVariableListIndex, len(e.Code))
		text, err := bytecode.Disassemble(bytecode.DefaultTable, e.Code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  disassembly stopped: %v\n", err)
		}
		fmt.Print(text)
	}
}

func dump(cmd *cobra.Command, args []string) {
	for _, path := range args {
		fmt.Printf("== %s ==\n", path)
		img, err := ancmod.Open(path, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening %s: %v\n", path, err)
			continue
		}

		if wantProperty {
			dumpProperty(img)
		}
		if wantImports {
			dumpImports(img)
		}
		if wantExports {
			dumpExports(img)
		}
		if wantFunctions {
			dumpFunctions(img)
		}
		img.Close()
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "ancdump",
		Short: "A module-image file inspector",
		Long:  "Dumps and disassembles ancmod module image files",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ancdump %d.%d\n", ancmod.SupportedVersion.Major, ancmod.SupportedVersion.Minor)
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps a module image's sections",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}
	dumpCmd.Flags().BoolVarP(&wantProperty, "property", "", true, "dump the property record")
	dumpCmd.Flags().BoolVarP(&wantImports, "imports", "", false, "dump import module entries")
	dumpCmd.Flags().BoolVarP(&wantExports, "exports", "", false, "dump export function entries")
	dumpCmd.Flags().BoolVarP(&wantFunctions, "functions", "", false, "disassemble every function")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
