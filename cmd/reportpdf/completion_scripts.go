package main

import (
	"fmt"
	"io"
	"strings"
)

// flagNames returns "--long" and, when set, "-s".
func flagNames(f flagDef) []string {
	names := []string{"--" + f.Long}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func splitGlob(glob string) []string {
	if glob == "" {
		return nil
	}
	return strings.Split(glob, ",")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func bashFiles(glob string) string {
	parts := []string{}
	for _, g := range splitGlob(glob) {
		parts = append(parts, fmt.Sprintf(`$(compgen -f -X '!%s' -- "$cur")`, g))
	}
	parts = append(parts, `$(compgen -d -- "$cur")`)
	return strings.Join(parts, " ")
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}

	b.WriteString("# bash completion for reportpdf\n")
	b.WriteString("_reportpdf() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		var all []string
		var valueCases []string
		for _, f := range c.Flags {
			names := flagNames(f)
			all = append(all, names...)
			pattern := strings.Join(names, "|")
			switch f.Type {
			case flagBool:
			case flagEnum:
				valueCases = append(valueCases, fmt.Sprintf("        %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;", pattern, strings.Join(f.Values, " ")))
			case flagDir:
				valueCases = append(valueCases, fmt.Sprintf("        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;", pattern))
			case flagFile:
				valueCases = append(valueCases, fmt.Sprintf("        %s) COMPREPLY=(%s); return ;;", pattern, bashFiles(f.FileGlob)))
			default:
				valueCases = append(valueCases, fmt.Sprintf("        %s) return ;;", pattern))
			}
		}
		if len(valueCases) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			b.WriteString(strings.Join(valueCases, "\n"))
			b.WriteString("\n        esac\n")
		}

		if len(all) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(all, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}

		var reply []string
		if len(c.Args) > 0 {
			reply = append(reply, fmt.Sprintf(`$(compgen -W "%s" -- "$cur")`, strings.Join(c.Args, " ")))
		}
		if c.FilePattern != "" {
			reply = append(reply, bashFiles(c.FilePattern))
		}
		if len(reply) > 0 {
			fmt.Fprintf(&b, "        COMPREPLY=(%s)\n", strings.Join(reply, " "))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _reportpdf reportpdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

var zshEscaper = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagDir:
		return ":directory:_files -/"
	case flagFile:
		return ":file:_files -g \"" + strings.Join(splitGlob(f.FileGlob), " ") + "\""
	default:
		return ":value: "
	}
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscaper.Replace(f.Desc) + "]"
	action := zshAction(f)
	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("#compdef reportpdf\n\n")
	b.WriteString("_reportpdf() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")
	b.WriteString("  local cmd=$words[2]\n")
	b.WriteString("  shift words\n")
	b.WriteString("  (( CURRENT-- ))\n\n")
	b.WriteString("  case $cmd in\n")

	for _, c := range cmds {
		specs := make([]string, 0, len(c.Flags)+1)
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			specs = append(specs, "'*:argument:("+strings.Join(c.Args, " ")+")'")
		case c.FilePattern != "":
			specs = append(specs, "'*:file:_files -g \""+strings.Join(splitGlob(c.FilePattern), " ")+"\"'")
		}
		if len(specs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("      _arguments -s \\\n        ")
		b.WriteString(strings.Join(specs, " \\\n        "))
		b.WriteString("\n      ;;\n")
	}

	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _reportpdf reportpdf\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

var fishEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# fish completion for reportpdf\n")
	b.WriteString("complete -c reportpdf -f\n\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c reportpdf -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishEscaper.Replace(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_seen_subcommand_from %s'", c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := "complete -c reportpdf -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += " -xa '" + strings.Join(f.Values, " ") + "'"
			case flagDir:
				line += " -xa '(__fish_complete_directories)'"
			case flagFile:
				line += " -rF"
			default:
				line += " -x"
			}
			line += " -d '" + fishEscaper.Replace(f.Desc) + "'"
			b.WriteString(line + "\n")
		}
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c reportpdf -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c reportpdf -n %s -F\n", cond)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = psQuote(s)
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	b.WriteString("# PowerShell completion for reportpdf\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName reportpdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		var names []string
		for _, f := range c.Flags {
			names = append(names, flagNames(f)...)
		}
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psArray(names))
	}
	b.WriteString("    }\n")

	b.WriteString("    $positional = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        %s = %s\n", psQuote(c.Name), psArray(c.Args))
	}
	b.WriteString("    }\n\n")

	b.WriteString(`    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })
    if ($elements.Count -lt 2 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {
        $commands.Keys | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $commands[$_])
        }
        return
    }

    $cmd = $elements[1]
    if ($wordToComplete -like '-*') {
        $flags[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)
        }
        return
    }
    $positional[$cmd] | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}
`)

	_, err := io.WriteString(w, b.String())
	return err
}
