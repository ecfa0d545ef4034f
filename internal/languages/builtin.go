package languages

import (
	"gocod/internal/matcher"
	"gocod/internal/model"
)

// 多个语言共用的查询片段。
const (
	cFunctionQuery = "(function_definition)"
	cVariableQuery = "(declaration)"
	cDefineQuery   = `
(preproc_def)
(preproc_function_def)
`

	jsFunctionQuery = `
(function_declaration)
(generator_function_declaration)
(method_definition)
(arrow_function)
(function_expression)
`
	jsVariableQuery = "(variable_declarator)"
	jsLoopQuery     = `
(for_statement)
(for_in_statement)
(while_statement)
(do_statement)
`
)

// builtinLanguages 返回内置语言，顺序即分类优先级：
// 后缀明确的代码语言在前，纯文本格式在后，兜底语言由注册表追加在最后。
func builtinLanguages() []Language {
	return []Language{
		NewDescriptor("Rust", matcher.GrammarRust, []string{".rs"}, nil,
			Pattern{model.Loops, `
(for_expression)
(while_expression)
(loop_expression)
`},
			Pattern{model.Functions, "(function_item)"},
			Pattern{model.Variables, `
(let_declaration)
(const_item)
(static_item)
`},
		),
		NewDescriptor("C++", matcher.GrammarCPP, []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"}, nil,
			Pattern{model.Loops, `
(for_range_loop)
(for_statement)
(while_statement)
(do_statement)
`},
			Pattern{model.Functions, cFunctionQuery},
			Pattern{model.Variables, cVariableQuery},
			Pattern{model.Templates, "(template_declaration)"},
			Pattern{model.Defines, cDefineQuery},
		),
		NewDescriptor("C", matcher.GrammarC, []string{".c", ".h"}, nil,
			Pattern{model.Loops, `
(for_statement)
(while_statement)
(do_statement)
`},
			Pattern{model.Functions, cFunctionQuery},
			Pattern{model.Variables, cVariableQuery},
			Pattern{model.Defines, cDefineQuery},
		),
		NewDescriptor("Zig", matcher.GrammarZig, []string{".zig"}, nil,
			Pattern{model.Loops, `
(for_statement)
(for_expression)
(while_statement)
(while_expression)
`},
			Pattern{model.Functions, "(function_declaration)"},
			Pattern{model.Variables, "(variable_declaration)"},
		),
		NewDescriptor("Go", matcher.GrammarGo, []string{".go"}, nil,
			Pattern{model.Loops, "(for_statement)"},
			Pattern{model.Functions, `
(function_declaration)
(method_declaration)
(func_literal)
`},
			Pattern{model.Variables, `
(var_spec)
(const_spec)
(short_var_declaration)
`},
		),
		NewDescriptor("Python", matcher.GrammarPython, []string{".py", ".pyi"}, nil,
			Pattern{model.Loops, `
(for_statement)
(while_statement)
`},
			Pattern{model.Functions, "(function_definition)"},
			Pattern{model.Variables, "(assignment)"},
		),
		NewDescriptor("Java", matcher.GrammarJava, []string{".java"}, nil,
			Pattern{model.Loops, `
(for_statement)
(enhanced_for_statement)
(while_statement)
(do_statement)
`},
			Pattern{model.Functions, `
(method_declaration)
(constructor_declaration)
`},
			Pattern{model.Variables, `
(local_variable_declaration)
(field_declaration)
`},
		),
		NewDescriptor("JavaScript", matcher.GrammarJavaScript, []string{".js", ".jsx", ".mjs", ".cjs"}, nil,
			Pattern{model.Loops, jsLoopQuery},
			Pattern{model.Functions, jsFunctionQuery},
			Pattern{model.Variables, jsVariableQuery},
		),
		NewDescriptor("TypeScript", matcher.GrammarTypeScript, []string{".ts", ".mts", ".cts"}, nil,
			Pattern{model.Loops, jsLoopQuery},
			Pattern{model.Functions, jsFunctionQuery},
			Pattern{model.Variables, jsVariableQuery},
		),
		NewDescriptor("TSX", matcher.GrammarTSX, []string{".tsx"}, nil,
			Pattern{model.Loops, jsLoopQuery},
			Pattern{model.Functions, jsFunctionQuery},
			Pattern{model.Variables, jsVariableQuery},
		),
		NewDescriptor("C#", matcher.GrammarCSharp, []string{".cs"}, nil,
			Pattern{model.Loops, `
(for_statement)
(foreach_statement)
(while_statement)
(do_statement)
`},
			Pattern{model.Functions, `
(method_declaration)
(constructor_declaration)
(local_function_statement)
`},
			Pattern{model.Variables, "(variable_declarator)"},
		),
		NewDescriptor("PHP", matcher.GrammarPHP, []string{".php", ".phtml"}, nil,
			Pattern{model.Loops, `
(for_statement)
(foreach_statement)
(while_statement)
(do_statement)
`},
			Pattern{model.Functions, `
(function_definition)
(method_declaration)
`},
			Pattern{model.Variables, "(assignment_expression)"},
		),
		NewDescriptor("Json", "", []string{".json"}, nil),
		NewDescriptor("Toml", "", []string{".toml"}, nil),
		NewDescriptor("Markdown", "", []string{".md"}, nil),
		NewDescriptor("Makefile", "", []string{".mk"}, []string{"Makefile", "makefile", "GNUmakefile"}),
		NewDescriptor("Xml", "", []string{".xml"}, nil),
		NewDescriptor("Yaml", "", []string{".yaml", ".yml"}, nil),
		NewDescriptor("Text", "", []string{".txt"}, nil),
	}
}
