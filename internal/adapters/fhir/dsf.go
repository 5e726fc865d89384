package fhir

// Canonical urls and code systems used by the DSF feasibility processes
const (
	// ResultTaskProfile is the single DIC simple feasibility result Task profile
	ResultTaskProfile = "https://www.netzwerk-universitaetsmedizin.de/fhir/StructureDefinition/codex-task-single-dic-result-simple-feasibility"
	// ResultTaskProfileVersion is the profile version DIC sites send
	ResultTaskProfileVersion = "0.1.0"

	OrganizationIdentifierSystem = "http://highmed.org/fhir/NamingSystem/organization-identifier"

	BPMNMessageSystem = "http://highmed.org/fhir/CodeSystem/bpmn-message"
	BusinessKeyCode   = "business-key"

	FeasibilitySystem    = "https://www.netzwerk-universitaetsmedizin.de/fhir/CodeSystem/feasibility"
	MeasureReportRefCode = "measure-report-reference"

	MeasurePopulationSystem = "http://terminology.hl7.org/CodeSystem/measure-population"
	InitialPopulationCode   = "initial-population"

	TaskStatusCompleted = "completed"
	TaskIntentOrder     = "order"
)

// VersionedResultTaskProfile is the canonical with its version suffix
const VersionedResultTaskProfile = ResultTaskProfile + "|" + ResultTaskProfileVersion
