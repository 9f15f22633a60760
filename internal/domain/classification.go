package domain

// Classification is a named hazard sub-type within a category. The set is
// closed; catalog tables are keyed by these values.
type Classification string

const (
	// Physical.
	Noise              Classification = "noise"
	Vibration          Classification = "vibration"
	InadequateLighting Classification = "inadequate_lighting"
	Temperature        Classification = "temperature"
	Radiation          Classification = "radiation"
	AbnormalPressure   Classification = "abnormal_pressure"

	// Chemical.
	Dusts      Classification = "dusts"
	Vapors     Classification = "vapors"
	Gases      Classification = "gases"
	MetalFumes Classification = "metal_fumes"
	Liquids    Classification = "liquids"
	Mists      Classification = "mists"

	// Biological.
	Viruses                 Classification = "viruses"
	Bacteria                Classification = "bacteria"
	Fungi                   Classification = "fungi"
	Parasites               Classification = "parasites"
	BitesAndStings          Classification = "bites_and_stings"
	ContaminatedBioMaterial Classification = "contaminated_biological_material"

	// Biomechanical.
	ForcedPostures      Classification = "forced_postures"
	RepetitiveMovements Classification = "repetitive_movements"
	ManualLoadHandling  Classification = "manual_load_handling"
	Overexertion        Classification = "overexertion"
	ProlongedPosture    Classification = "prolonged_standing_or_sitting"

	// Psychosocial.
	WorkStress          Classification = "work_stress"
	MentalWorkload      Classification = "mental_workload"
	ExtendedShifts      Classification = "extended_or_rotating_shifts"
	WorkUnderPressure   Classification = "work_under_pressure"
	LackOfTaskControl   Classification = "lack_of_task_control"
	WorkplaceHarassment Classification = "workplace_harassment"

	// Safety conditions.
	WorkAtHeights     Classification = "work_at_heights"
	ElectricalRisk    Classification = "electrical_risk"
	UnguardedMachines Classification = "unguarded_machinery"
	DefectiveTools    Classification = "defective_tools"
	SlipperySurfaces  Classification = "slippery_surfaces"
	Falls             Classification = "falls"
	ConfinedSpaces    Classification = "confined_spaces"

	// Public.
	Robbery          Classification = "robbery"
	Assault          Classification = "assault"
	CivilUnrest      Classification = "civil_unrest"
	TrafficAccidents Classification = "traffic_accidents"
	ExternalViolence Classification = "external_violence"

	// Natural phenomena.
	Earthquakes      Classification = "earthquakes"
	Floods           Classification = "floods"
	Landslides       Classification = "landslides"
	ElectricalStorms Classification = "electrical_storms"
	StrongWinds      Classification = "strong_winds"
)

type classificationInfo struct {
	category HazardCategory
	label    string
}

var classifications = []Classification{
	Noise, Vibration, InadequateLighting, Temperature, Radiation, AbnormalPressure,
	Dusts, Vapors, Gases, MetalFumes, Liquids, Mists,
	Viruses, Bacteria, Fungi, Parasites, BitesAndStings, ContaminatedBioMaterial,
	ForcedPostures, RepetitiveMovements, ManualLoadHandling, Overexertion, ProlongedPosture,
	WorkStress, MentalWorkload, ExtendedShifts, WorkUnderPressure, LackOfTaskControl, WorkplaceHarassment,
	WorkAtHeights, ElectricalRisk, UnguardedMachines, DefectiveTools, SlipperySurfaces, Falls, ConfinedSpaces,
	Robbery, Assault, CivilUnrest, TrafficAccidents, ExternalViolence,
	Earthquakes, Floods, Landslides, ElectricalStorms, StrongWinds,
}

var classificationTable = map[Classification]classificationInfo{
	Noise:              {CategoryPhysical, "Ruido"},
	Vibration:          {CategoryPhysical, "Vibraciones"},
	InadequateLighting: {CategoryPhysical, "Iluminación inadecuada"},
	Temperature:        {CategoryPhysical, "Temperaturas extremas (calor o frío)"},
	Radiation:          {CategoryPhysical, "Radiaciones ionizantes y no ionizantes"},
	AbnormalPressure:   {CategoryPhysical, "Presiones anormales"},

	Dusts:      {CategoryChemical, "Polvos"},
	Vapors:     {CategoryChemical, "Vapores"},
	Gases:      {CategoryChemical, "Gases"},
	MetalFumes: {CategoryChemical, "Humos metálicos"},
	Liquids:    {CategoryChemical, "Líquidos (solventes, ácidos, bases)"},
	Mists:      {CategoryChemical, "Nieblas"},

	Viruses:                 {CategoryBiological, "Virus"},
	Bacteria:                {CategoryBiological, "Bacterias"},
	Fungi:                   {CategoryBiological, "Hongos"},
	Parasites:               {CategoryBiological, "Parásitos"},
	BitesAndStings:          {CategoryBiological, "Picaduras y mordeduras"},
	ContaminatedBioMaterial: {CategoryBiological, "Material biológico contaminado"},

	ForcedPostures:      {CategoryBiomechanical, "Posturas forzadas"},
	RepetitiveMovements: {CategoryBiomechanical, "Movimientos repetitivos"},
	ManualLoadHandling:  {CategoryBiomechanical, "Manipulación manual de cargas"},
	Overexertion:        {CategoryBiomechanical, "Sobreesfuerzo"},
	ProlongedPosture:    {CategoryBiomechanical, "Trabajo prolongado en posición de pie o sentado"},

	WorkStress:          {CategoryPsychosocial, "Estrés laboral"},
	MentalWorkload:      {CategoryPsychosocial, "Carga mental"},
	ExtendedShifts:      {CategoryPsychosocial, "Turnos extensos o rotativos"},
	WorkUnderPressure:   {CategoryPsychosocial, "Trabajo bajo presión"},
	LackOfTaskControl:   {CategoryPsychosocial, "Falta de control sobre la tarea"},
	WorkplaceHarassment: {CategoryPsychosocial, "Acoso laboral"},

	WorkAtHeights:     {CategorySafetyConditions, "Trabajo en alturas"},
	ElectricalRisk:    {CategorySafetyConditions, "Riesgo eléctrico"},
	UnguardedMachines: {CategorySafetyConditions, "Máquinas sin protección"},
	DefectiveTools:    {CategorySafetyConditions, "Herramientas defectuosas"},
	SlipperySurfaces:  {CategorySafetyConditions, "Superficies resbaladizas"},
	Falls:             {CategorySafetyConditions, "Caídas a mismo o distinto nivel"},
	ConfinedSpaces:    {CategorySafetyConditions, "Espacios confinados"},

	Robbery:          {CategoryPublic, "Robos"},
	Assault:          {CategoryPublic, "Atracos"},
	CivilUnrest:      {CategoryPublic, "Disturbios"},
	TrafficAccidents: {CategoryPublic, "Accidentes de tránsito"},
	ExternalViolence: {CategoryPublic, "Violencia externa"},

	Earthquakes:      {CategoryNaturalPhenomena, "Sismos"},
	Floods:           {CategoryNaturalPhenomena, "Inundaciones"},
	Landslides:       {CategoryNaturalPhenomena, "Deslizamientos"},
	ElectricalStorms: {CategoryNaturalPhenomena, "Tormentas eléctricas"},
	StrongWinds:      {CategoryNaturalPhenomena, "Vientos fuertes"},
}

// AllClassifications returns every classification in catalog order.
func AllClassifications() []Classification {
	out := make([]Classification, len(classifications))
	copy(out, classifications)
	return out
}

// ClassificationsIn returns the classifications of one category.
func ClassificationsIn(c HazardCategory) []Classification {
	var out []Classification
	for _, cl := range classifications {
		if classificationTable[cl].category == c {
			out = append(out, cl)
		}
	}
	return out
}

func (c Classification) Valid() bool {
	_, ok := classificationTable[c]
	return ok
}

// Category returns the owning category, or "" for an unknown classification.
func (c Classification) Category() HazardCategory {
	return classificationTable[c].category
}

// Label returns the display name used by the backend and the matrix export.
func (c Classification) Label() string {
	if info, ok := classificationTable[c]; ok {
		return info.label
	}
	return string(c)
}

// ParseClassification resolves a code or display label, ignoring case and
// accents. Unknown input returns false.
func ParseClassification(s string) (Classification, bool) {
	if Blank(s) {
		return "", false
	}
	key := Fold(s)
	for _, c := range classifications {
		if key == string(c) || key == Fold(classificationTable[c].label) {
			return c, true
		}
	}
	return "", false
}
