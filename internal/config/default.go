package config

// Default is the built-in provisioning pipeline: it installs the anchorpy
// toolchain on a fresh machine and runs the test suite. Versions are pinned;
// changing one is a definition change, not a runtime decision.
func Default() *Pipeline {
	return &Pipeline{
		Name: "anchorpy",
		On:   []string{"push", "pull_request"},
		Steps: []Step{
			{
				Name:   "Checkout",
				Action: "checkout",
				With: map[string]string{
					"repository": "https://github.com/kevinheavey/anchorpy",
					"ref":        "master",
				},
			},
			{
				Name:   "Install Node",
				Action: "install-tool",
				With: map[string]string{
					"tool":    "node",
					"version": "17.3.0",
					"run":     "nvm install 17.3.0 && nvm use 17.3.0",
				},
			},
			{
				Name:   "Install Rust",
				Action: "install-tool",
				With: map[string]string{
					"tool":    "rust",
					"version": "stable",
					"run":     "rustup toolchain install stable --profile minimal",
				},
			},
			{
				Name:   "Install Solana",
				Action: "install-tool",
				With: map[string]string{
					"tool":    "solana",
					"version": "v1.9.13",
					"run":     `sh -c "$(curl -sSfL https://release.solana.com/v1.9.13/install)"`,
				},
			},
			{
				Name:   "Add Solana to PATH",
				Action: "mutate-path",
				With: map[string]string{
					"dir": "$HOME/.local/share/solana/install/active_release/bin",
				},
			},
			{
				Name:   "Install Anchor",
				Action: "install-tool",
				With: map[string]string{
					"tool":    "anchor",
					"version": "v0.24.2",
					"run":     "npm install -g @project-serum/anchor-cli@v0.24.2",
				},
			},
			{
				Name:   "Generate keypair",
				Action: "run-command",
				With: map[string]string{
					"run": "solana-keygen new --no-bip39-passphrase",
				},
			},
			{
				Name:   "Install Python",
				Action: "install-tool",
				With: map[string]string{
					"tool":    "python",
					"version": "3.9.7",
					"run":     "pyenv install -s 3.9.7 && pyenv global 3.9.7",
				},
			},
			{
				Name:   "Install Poetry",
				Action: "install-tool",
				With: map[string]string{
					"tool":    "poetry",
					"version": "1.1.11",
					"run":     "curl -sSL https://install.python-poetry.org | python3 - --version 1.1.11",
				},
			},
			{
				Name:   "Install dependencies",
				Action: "run-command",
				With: map[string]string{
					"run": "poetry install",
				},
			},
			{
				Name:   "Run tests",
				Action: "run-command",
				With: map[string]string{
					"run": "poetry run make test",
				},
			},
		},
	}
}
