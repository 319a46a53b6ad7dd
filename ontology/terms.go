package ontology

// OPBNamespace is the identifiers.org prefix for Ontology of Physics for
// Biology terms.
const OPBNamespace = "https://identifiers.org/opb:"

// OPB physical property terms used as standard quantities.
const (
	// Amounts.
	MolarAmount               = OPBNamespace + "OPB_00425"
	ChargeAmount              = OPBNamespace + "OPB_00411"
	TranslationalDisplacement = OPBNamespace + "OPB_00269"
	FluidVolume               = OPBNamespace + "OPB_00154"
	VolumeAmount              = OPBNamespace + "OPB_01322"
	EnergyAmount              = OPBNamespace + "OPB_00562"
	TemporalLocation          = OPBNamespace + "OPB_00402"

	// Flow rates.
	ChemicalAmountFlowRate = OPBNamespace + "OPB_00592"
	ChargeFlowRate         = OPBNamespace + "OPB_00318"
	TranslationalVelocity  = OPBNamespace + "OPB_00251"
	FluidFlowRate          = OPBNamespace + "OPB_00299"

	// Potentials.
	ChemicalPotential   = OPBNamespace + "OPB_00378"
	ElectricalPotential = OPBNamespace + "OPB_00506"
	MechanicalForce     = OPBNamespace + "OPB_00034"
	FluidPressure       = OPBNamespace + "OPB_00509"
)
