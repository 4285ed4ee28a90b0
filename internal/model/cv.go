package model

// PSI-MI identifiers used by the exporters.
const (
	MIProtein = "MI:0326"
	MIComplex = "MI:0314"

	MIUniprot          = "MI:0486"
	MIGeneOntology     = "MI:0448"
	MIWwpdb            = "MI:0805"
	MIEvidenceOntology = "MI:1331"
	MIPubmed           = "MI:0446"
	MIIntact           = "MI:0469"

	MIIdentity      = "MI:0356"
	MIExpEvidence   = "MI:1318"
	MIChainParent   = "MI:0951"
	MIIsoformParent = "MI:0243"
)

// Database short names.
const (
	DBUniprot          = "uniprotkb"
	DBGeneOntology     = "go"
	DBWwpdb            = "wwpdb"
	DBEvidenceOntology = "evidence ontology"
	DBPubmed           = "pubmed"
	DBIntact           = "intact"
)

// Qualifier short names.
const (
	QualIdentity      = "identity"
	QualExpEvidence   = "exp-evidence"
	QualChainParent   = "chain-parent"
	QualIsoformParent = "isoform-parent"
	QualComponent     = "component"
	QualFunction      = "function"
	QualProcess       = "process"
)

// Annotation topic short names.
const (
	TopicCuratedComplex = "curated-complex"
	TopicProperties     = "complex-properties"
	TopicAssembly       = "complex-assembly"
	TopicLigand         = "ligand"
	TopicDisease        = "disease"
	TopicAgonist        = "agonist"
	TopicAntagonist     = "antagonist"
	TopicComment        = "comment"
)

// Alias type short names.
const (
	AliasComplexSynonym = "complex synonym"
	AliasSystematicName = "complex systematic name"
	AliasGeneName       = "gene name"
)
