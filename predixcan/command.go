package predixcan

// Columns of the GWAS input as named by the MESA formatting step.
const (
	SNPColumn             = "SNP"
	EffectAlleleColumn    = "ALT"
	NonEffectAlleleColumn = "REF"
	BetaColumn            = "BETA"
	SEColumn              = "SE"
	ModelSNPKey           = "rsid"
)

// Command is the argument vector for SPrediXcan.py; argv[0] is the
// interpreter. Arguments are passed without a shell, so paths need no
// quoting.
func Command(c Config) []string {
	return []string{
		c.Python,
		c.Script(),
		"--gwas_file", c.LocalInput(),
		"--snp_column", SNPColumn,
		"--effect_allele_column", EffectAlleleColumn,
		"--non_effect_allele_column", NonEffectAlleleColumn,
		"--beta_column", BetaColumn,
		"--se_column", SEColumn,
		"--model_db_path", c.ModelDB(),
		"--covariance", c.Covariance(),
		"--keep_non_rsid",
		"--model_db_snp_key", ModelSNPKey,
		"--throw",
		"--output_file", c.Output(),
	}
}
