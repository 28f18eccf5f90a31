package classify

// DefaultLanguageRules covers the languages that show up in captured
// screenshots of code. Order encodes tie-breaking preference.
func DefaultLanguageRules() []LanguageRule {
	return []LanguageRule{
		{
			ID: "javascript",
			Patterns: []string{
				`\bconst\s+\w+\s*=`,
				`\blet\s+\w+\s*=`,
				`=>`,
				`\bfunction\s+\w+\s*\(`,
				`console\.log\(`,
				`\brequire\(['"]`,
				`\bimport\s+.+\s+from\s+['"]`,
			},
			Keywords: []string{"const", "let", "var", "function", "async", "await", "export", "require", "console", "undefined", "props", "usestate", "useeffect"},
		},
		{
			ID: "typescript",
			Patterns: []string{
				`:\s*(string|number|boolean|void)\b`,
				`\binterface\s+\w+\s*\{`,
				`\btype\s+\w+\s*=`,
				`\benum\s+\w+`,
				`<\w+(,\s*\w+)*>\(`,
			},
			Keywords: []string{"interface", "implements", "enum", "readonly", "namespace", "typescript", "tsx", "generics"},
		},
		{
			ID: "python",
			Patterns: []string{
				`\bdef\s+\w+\s*\(`,
				`\bif\s+__name__\s*==`,
				`\bprint\(`,
				`\blambda\s+\w+\s*:`,
				`\bfrom\s+[\w.]+\s+import\b`,
			},
			Keywords: []string{"def", "self", "elif", "lambda", "yield", "pip", "django", "numpy", "pandas"},
		},
		{
			ID: "java",
			Patterns: []string{
				`\bpublic\s+(class|static|void|final)\b`,
				`System\.out\.println\(`,
				`\bprivate\s+\w+\s+\w+\s*;`,
				`\bnew\s+\w+<`,
			},
			Keywords: []string{"public", "private", "static", "void", "extends", "implements", "final", "abstract", "println"},
		},
		{
			ID: "kotlin",
			Patterns: []string{
				`\bfun\s+\w+\s*\(`,
				`\bval\s+\w+\s*=`,
				`\bcompanion\s+object\b`,
				`\bwhen\s*\(`,
			},
			Keywords: []string{"fun", "val", "suspend", "coroutine", "kotlin", "lateinit", "dataclass", "android"},
		},
		{
			ID: "swift",
			Patterns: []string{
				`\bfunc\s+\w+\s*\(`,
				`\bguard\s+let\b`,
				`\bvar\s+\w+\s*:\s*\w+`,
				`@(State|IBOutlet|Published|MainActor)\b`,
			},
			Keywords: []string{"guard", "swiftui", "uikit", "uiview", "viewdidload", "iboutlet", "xcode", "optionals"},
		},
		{
			ID: "go",
			Patterns: []string{
				`\bfunc\s+\w+\s*\(`,
				`\bfunc\s*\(\w+\s+\*?\w+\)`,
				`:=`,
				`\bpackage\s+\w+`,
				`\bgo\s+func\b`,
			},
			Keywords: []string{"func", "chan", "defer", "goroutine", "golang", "fmt", "struct", "nil"},
		},
		{
			ID: "rust",
			Patterns: []string{
				`\bfn\s+\w+`,
				`\blet\s+mut\b`,
				`\bimpl\s+\w+`,
				`\w+::\w+`,
			},
			Keywords: []string{"mut", "impl", "crate", "cargo", "rustc", "borrow", "lifetime", "match"},
		},
		{
			ID: "csharp",
			Patterns: []string{
				`\busing\s+System`,
				`\bnamespace\s+[\w.]+`,
				`\bpublic\s+async\s+Task`,
				`\bConsole\.WriteLine\(`,
			},
			Keywords: []string{"namespace", "linq", "dotnet", "nuget", "unity", "xamarin"},
		},
		{
			ID: "ruby",
			Patterns: []string{
				`\bputs\s+`,
				`\bdo\s*\|\w+\|`,
				`\battr_(accessor|reader|writer)\b`,
				`(?m)\bdef\s+\w+\s*$`,
			},
			Keywords: []string{"puts", "gem", "rails", "rspec", "bundler", "rubocop"},
		},
		{
			ID: "php",
			Patterns: []string{
				`<\?php`,
				`\$\w+\s*=`,
				`->\w+\(`,
				`\becho\s+`,
			},
			Keywords: []string{"php", "echo", "laravel", "composer", "foreach", "artisan"},
		},
		{
			ID: "html",
			Patterns: []string{
				`</?(div|span|html|body|head|p|a|ul|li)\b`,
				`<!DOCTYPE`,
				`\bclass="[^"]*"`,
			},
			Keywords: []string{"div", "span", "html", "href", "doctype"},
		},
		{
			ID: "css",
			Patterns: []string{
				`\b(margin|padding|display|position)\s*:`,
				`:\s*\d+(px|em|rem|%)`,
				`@media\b`,
				`#[0-9a-fA-F]{3,6}\b`,
			},
			Keywords: []string{"margin", "padding", "flex", "color", "background", "selector", "webkit"},
		},
		{
			ID: "sql",
			Patterns: []string{
				`(?i)\bSELECT\b[\s\S]+\bFROM\b`,
				`(?i)\bINSERT\s+INTO\b`,
				`(?i)\bCREATE\s+TABLE\b`,
				`(?i)\bLEFT\s+JOIN\b`,
			},
			Keywords: []string{"select", "from", "where", "join", "insert", "update", "varchar", "postgres"},
		},
		{
			ID: "shell",
			Patterns: []string{
				`^#!/bin/(ba|z)?sh`,
				`\becho\s+\$`,
				`\$\{?\w+\}?`,
				`\bif\s+\[\[?\s`,
			},
			Keywords: []string{"echo", "bash", "sudo", "grep", "awk", "sed", "chmod", "curl"},
		},
	}
}

// DefaultTopicRules lean toward the things people screenshot: UI code,
// API calls, storage glue. Weights bias ranking toward those.
func DefaultTopicRules() []TopicRule {
	return []TopicRule{
		{
			ID:     "ui-components",
			Weight: 1.3,
			Patterns: []string{
				`<[A-Z]\w+`,
				`\bstyles?\.\w+`,
				`\brender\s*\(`,
			},
			Keywords: []string{"view", "touchableopacity", "button", "stylesheet", "flatlist", "scrollview", "component", "props", "render", "layout", "screen", "modal", "navigation"},
		},
		{
			ID:     "networking",
			Weight: 1.2,
			Patterns: []string{
				`https?://`,
				`\bfetch\(`,
				`axios\.\w+\(`,
				`URLSession`,
			},
			Keywords: []string{"fetch", "axios", "http", "request", "response", "api", "endpoint", "urlsession", "websocket", "header", "rest"},
		},
		{
			ID:     "data-persistence",
			Weight: 1.2,
			Patterns: []string{
				`(?i)\bSELECT\b[\s\S]+\bFROM\b`,
				`\b(realm|sqlite|coredata)\b`,
			},
			Keywords: []string{"database", "sqlite", "realm", "coredata", "asyncstorage", "query", "insert", "migration", "schema", "cache", "storage"},
		},
		{
			ID:     "authentication",
			Weight: 1.2,
			Patterns: []string{
				`\bBearer\s+\w`,
				`\bjwt\b`,
			},
			Keywords: []string{"auth", "login", "token", "jwt", "oauth", "password", "session", "signin", "logout", "credentials"},
		},
		{
			ID:     "state-management",
			Weight: 1.1,
			Patterns: []string{
				`\buseState\(`,
				`\bdispatch\(`,
				`\buseReducer\(`,
			},
			Keywords: []string{"usestate", "useeffect", "redux", "reducer", "dispatch", "store", "observable", "viewmodel", "mobx", "context"},
		},
		{
			ID:     "testing",
			Weight: 1.1,
			Patterns: []string{
				`\b(describe|test)\(`,
				`\bexpect\(`,
				`@Test\b`,
			},
			Keywords: []string{"test", "expect", "assert", "mock", "jest", "mocha", "xctest", "junit", "pytest", "fixture"},
		},
		{
			ID:     "error-handling",
			Weight: 1.0,
			Patterns: []string{
				`\btry\s*\{`,
				`\bcatch\s*\(`,
				`\brescue\b`,
			},
			Keywords: []string{"error", "try", "catch", "exception", "throw", "panic", "recover", "finally", "retry"},
		},
		{
			ID:     "concurrency",
			Weight: 1.0,
			Patterns: []string{
				`\basync\s+func(tion)?\b`,
				`\bgo\s+func\b`,
				`\bawait\s+\w`,
			},
			Keywords: []string{"async", "await", "promise", "thread", "goroutine", "mutex", "channel", "dispatchqueue", "coroutine", "race"},
		},
		{
			ID:     "algorithms",
			Weight: 1.0,
			Patterns: []string{
				`\bO\(`,
			},
			Keywords: []string{"sort", "search", "recursion", "binary", "tree", "graph", "hash", "complexity", "fibonacci", "memoization"},
		},
		{
			ID:     "configuration",
			Weight: 0.9,
			Patterns: []string{
				`\bprocess\.env\b`,
				`(?m)^\s*[A-Z][A-Z0-9_]+=`,
			},
			Keywords: []string{"config", "env", "environment", "settings", "yaml", "dotenv", "plist", "gradle", "manifest"},
		},
	}
}
