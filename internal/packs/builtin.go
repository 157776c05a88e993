package packs

// builtinPacks returns the catalog of packs shipped with dcg. Patterns are
// grounded on concrete destructive-command scenarios and on the
// git/disk/permissions regex sets the original implementation carried.
//
// None of the destructive patterns anchor with `^`: a destructive command
// can appear anywhere in a compound command (`true && git reset --hard`),
// and the orchestrator's recursive sub-evaluator hands these packs bodies
// extracted from deep inside a larger command. Neither safe nor destructive
// patterns anchor with `^`; segment-boundary anchoring is enforced by
// Pack.MatchesSafe and Pack.MatchesDestructive checking each match's start
// offset against segment boundaries, not by the regex itself — this is what
// keeps `echo git reset --hard` (the literal string is an argument to echo,
// not a second command) from matching core.git's reset-hard pattern.
func builtinPacks() []*Pack {
	return []*Pack{
		coreGit(),
		systemFilesystem(),
		systemDisk(),
		systemPermissions(),
		containersDocker(),
		kubernetesKubectl(),
		iacTerraform(),
		messagingBrokers(),
		secretsManagers(),
	}
}

const gitGlobalFlags = `(?:-C\s+\S+\s+|--work-tree=\S+\s+|--git-dir=\S+\s+)*`

func coreGit() *Pack {
	return New("core.git",
		[]string{"git"},
		[]Pattern{
			{Name: "checkout", Regex: `\bgit\s+` + gitGlobalFlags + `checkout\b`},
			{Name: "status-log-diff", Regex: `\bgit\s+` + gitGlobalFlags + `(status|log|diff|show|branch|fetch|pull|add|commit|stash|tag)\b`},
		},
		[]Pattern{
			{
				Name:     "reset-hard",
				Regex:    `\bgit\s+` + gitGlobalFlags + `reset\s+(--hard|--mixed|--merge)\b`,
				Reason:   "git reset discards uncommitted work",
				Severity: Critical,
			},
			{
				Name:     "clean-force",
				Regex:    `\bgit\s+` + gitGlobalFlags + `clean\s+.*-[a-z]*f[a-z]*d?`,
				Reason:   "git clean -f permanently deletes untracked files",
				Severity: High,
			},
			{
				Name:     "push-force",
				Regex:    `\bgit\s+` + gitGlobalFlags + `push\s+.*(--force\b|-f\b|--force-with-lease)`,
				Reason:   "force push can overwrite remote history",
				Severity: High,
			},
			{
				Name:     "branch-delete-force",
				Regex:    `\bgit\s+` + gitGlobalFlags + `branch\s+.*-D\b`,
				Reason:   "forcibly deletes a branch without merge check",
				Severity: Medium,
			},
		},
	)
}

// systemFilesystem covers bare `rm`/`find -delete` recursive-force deletion,
// the single most common destructive literal in the specification's
// worked examples.
func systemFilesystem() *Pack {
	return New("system.filesystem",
		[]string{"rm ", "find "},
		[]Pattern{
			{Name: "rm-single-file", Regex: `\brm\s+(?:-[a-qs-z]*(?:[^a-z;&|][^;&|]*)?|[^-;&|][^;&|]*)?$`},
		},
		[]Pattern{
			{
				Name:     "rm-recursive-force",
				Regex:    `\brm\s+-[a-z]*r[a-z]*f[a-z]*\b`,
				Reason:   "recursively and forcibly deletes files without confirmation",
				Severity: Critical,
			},
			{
				Name:     "rm-recursive-force-alt-order",
				Regex:    `\brm\s+-[a-z]*f[a-z]*r[a-z]*\b`,
				Reason:   "recursively and forcibly deletes files without confirmation",
				Severity: Critical,
			},
			{
				Name:     "find-delete",
				Regex:    `\bfind\s+.*-delete\b`,
				Reason:   "deletes every file the find expression matches",
				Severity: High,
			},
		},
	)
}

func systemDisk() *Pack {
	return New("system.disk",
		[]string{"dd", "mkfs", "shred"},
		[]Pattern{
			{Name: "dd-safe-target", Regex: `\bdd\s+.*of=(/dev/null|[^/]\S*)(\s|$)`},
		},
		[]Pattern{
			{
				Name:     "dd-to-block-device",
				Regex:    `\bdd\s+.*of=/dev/[shnv]d[a-z0-9]*\b`,
				Reason:   "writes raw bytes directly to a block device",
				Severity: Critical,
			},
			{
				Name:     "mkfs",
				Regex:    `\bmkfs(\.\w+)?\s+`,
				Reason:   "formats a filesystem, destroying its contents",
				Severity: Critical,
			},
			{
				Name:     "shred-device",
				Regex:    `\bshred\s+.*/dev/\S+`,
				Reason:   "securely overwrites a device's contents",
				Severity: Critical,
			},
		},
	)
}

func systemPermissions() *Pack {
	return New("system.permissions",
		[]string{"chmod", "chown"},
		[]Pattern{
			{Name: "chmod-single-file", Regex: `\bchmod\s+(?:[^-\s]|-[^-R\s])\S*\s+\S+$`},
			{Name: "chmod-user-tree", Regex: `\bchmod\s+(-R|--recursive)\s+\S+\s+/home/[^/\s]+(/\S*)?$`},
		},
		[]Pattern{
			{
				Name:     "chmod-recursive-system-path",
				Regex:    `\bchmod\s+(-R|--recursive)\s+\S+\s+(/etc|/usr|/bin|/sbin|/lib|/boot|/var|/root|/)(\s|/|$)`,
				Reason:   "recursive permission change over a system directory",
				Severity: High,
			},
			{
				Name:     "chown-recursive-system-path",
				Regex:    `\bchown\s+(-R|--recursive)\s+\S+\s+(/etc|/usr|/bin|/sbin|/lib|/boot|/var|/root|/)(\s|/|$)`,
				Reason:   "recursive ownership change over a system directory",
				Severity: High,
			},
		},
	)
}

func containersDocker() *Pack {
	return New("containers.docker",
		[]string{"docker"},
		[]Pattern{
			{Name: "docker-readonly", Regex: `\bdocker\s+(ps|images|logs|inspect|version|info)\b`},
		},
		[]Pattern{
			{
				Name:     "docker-system-prune-all",
				Regex:    `\bdocker\s+system\s+prune\s+.*-a\b`,
				Reason:   "removes all unused images, not just dangling ones",
				Severity: High,
			},
			{
				Name:     "docker-rm-force-all",
				Regex:    `\bdocker\s+rm\s+.*-f\b.*\$\(docker\s+ps\s+-aq\)`,
				Reason:   "force-removes every container",
				Severity: High,
			},
			{
				Name:     "docker-volume-prune",
				Regex:    `\bdocker\s+volume\s+(rm|prune)\b`,
				Reason:   "deletes volume data",
				Severity: Medium,
			},
		},
	)
}

func kubernetesKubectl() *Pack {
	return New("kubernetes.kubectl",
		[]string{"kubectl"},
		[]Pattern{
			{Name: "kubectl-readonly", Regex: `\bkubectl\s+(get|describe|logs|top|version)\b`},
		},
		[]Pattern{
			{
				Name:     "delete-namespace",
				Regex:    `\bkubectl\s+delete\s+namespace\s+\S+`,
				Reason:   "deletes a namespace and everything in it",
				Severity: Critical,
			},
			{
				Name:     "delete-all",
				Regex:    `\bkubectl\s+delete\s+.*--all\b`,
				Reason:   "deletes every resource of the given kind",
				Severity: Critical,
			},
			{
				Name:     "delete-pvc",
				Regex:    `\bkubectl\s+delete\s+pvc\s+\S+`,
				Reason:   "deletes a persistent volume claim and its data",
				Severity: High,
			},
		},
	)
}

func iacTerraform() *Pack {
	return New("iac.terraform",
		[]string{"terraform"},
		[]Pattern{
			{Name: "terraform-readonly", Regex: `\bterraform\s+(plan|validate|show|output|fmt|version)\b`},
		},
		[]Pattern{
			{
				Name:     "destroy",
				Regex:    `\bterraform\s+destroy\b`,
				Reason:   "tears down provisioned infrastructure",
				Severity: Critical,
			},
			{
				Name:     "apply-auto-approve",
				Regex:    `\bterraform\s+apply\s+.*-auto-approve\b`,
				Reason:   "applies infrastructure changes without interactive confirmation",
				Severity: High,
			},
			{
				Name:     "state-rm",
				Regex:    `\bterraform\s+state\s+rm\b`,
				Reason:   "removes a resource from state without destroying it, risking drift",
				Severity: Medium,
			},
		},
	)
}

// messagingBrokers covers the broker-admin surfaces the original
// implementation's messaging packs targeted (kafka, rabbitmq, nats, sqs/sns):
// topic/queue/stream deletion is destructive even though the brokers
// themselves are not filesystem tools.
func messagingBrokers() *Pack {
	return New("messaging.brokers",
		[]string{"kafka-topics", "rabbitmqctl", "nats", "aws"},
		[]Pattern{
			{Name: "kafka-describe", Regex: `\bkafka-topics(\.sh)?\s+.*--describe\b`},
		},
		[]Pattern{
			{
				Name:     "kafka-delete-topic",
				Regex:    `\bkafka-topics(\.sh)?\s+.*--delete\b`,
				Reason:   "deletes a Kafka topic and its data",
				Severity: High,
			},
			{
				Name:     "rabbitmq-delete-queue",
				Regex:    `\brabbitmqctl\s+delete_queue\b`,
				Reason:   "deletes a RabbitMQ queue and its messages",
				Severity: High,
			},
			{
				Name:     "nats-stream-purge",
				Regex:    `\bnats\s+stream\s+purge\b`,
				Reason:   "purges all messages from a NATS JetStream stream",
				Severity: High,
			},
			{
				Name:     "sqs-purge-queue",
				Regex:    `\baws\s+sqs\s+purge-queue\b`,
				Reason:   "permanently deletes all messages in an SQS queue",
				Severity: High,
			},
		},
	)
}

// secretsManagers covers destructive admin operations against secret stores
// (vault seal/delete, doppler/1password/aws-secrets deletion) that an agent
// could otherwise issue unreviewed.
func secretsManagers() *Pack {
	return New("secrets.managers",
		[]string{"vault", "doppler", "op ", "aws"},
		[]Pattern{
			{Name: "vault-read", Regex: `\bvault\s+(read|kv\s+get|status)\b`},
		},
		[]Pattern{
			{
				Name:     "vault-delete-secret",
				Regex:    `\bvault\s+kv\s+(delete|destroy)\b`,
				Reason:   "permanently deletes a secret version",
				Severity: Critical,
			},
			{
				Name:     "vault-operator-seal",
				Regex:    `\bvault\s+operator\s+(seal|revoke)\b`,
				Reason:   "seals or revokes the vault, cutting off all secret access",
				Severity: Critical,
			},
			{
				Name:     "doppler-secrets-delete",
				Regex:    `\bdoppler\s+secrets\s+delete\b`,
				Reason:   "deletes a secret from the active Doppler config",
				Severity: High,
			},
			{
				Name:     "onepassword-item-delete",
				Regex:    `\bop\s+item\s+delete\b`,
				Reason:   "permanently deletes a 1Password item",
				Severity: High,
			},
			{
				Name:     "aws-secrets-delete",
				Regex:    `\baws\s+secretsmanager\s+delete-secret\b`,
				Reason:   "schedules an AWS Secrets Manager secret for deletion",
				Severity: High,
			},
		},
	)
}
