package catalog

import "github.com/sgsst/profesiograma-go/internal/domain"

// ControlProfile names a set of default control texts.
type ControlProfile string

const (
	ProfileNoise              ControlProfile = "noise"
	ProfileLighting           ControlProfile = "lighting"
	ProfileProlongedPostures  ControlProfile = "prolonged_postures"
	ProfileManualHandling     ControlProfile = "manual_handling"
	ProfileRepetitiveMovement ControlProfile = "repetitive_movement"
	ProfileThermalStress      ControlProfile = "thermal_stress"
	ProfileChemical           ControlProfile = "chemical"
	ProfileBiological         ControlProfile = "biological"
)

// ControlDefaults is the default narrative for every control field of a
// factor assessment. Empty strings mean the profile has no default.
type ControlDefaults struct {
	Source           string                  `json:"source,omitempty"`
	Medium           string                  `json:"medium,omitempty"`
	Individual       string                  `json:"individual,omitempty"`
	WorstConsequence string                  `json:"worst_consequence,omitempty"`
	Hierarchy        domain.ControlHierarchy `json:"hierarchy"`
}

var controlTable = map[ControlProfile]ControlDefaults{
	ProfileNoise: {
		Source:           "Aislamiento acústico de maquinaria, mantenimiento preventivo de equipos ruidosos",
		Medium:           "Barreras acústicas, mamparas, encerramientos, tratamiento acústico de paredes",
		Individual:       "Protectores auditivos tipo copa o inserción, rotación de personal",
		WorstConsequence: "Hipoacusia neurosensorial irreversible",
		Hierarchy: domain.ControlHierarchy{
			Engineering:    "Instalar silenciadores, aislar fuentes de ruido, reemplazar equipos ruidosos",
			Administrative: "Reducir tiempo de exposición, rotación de puestos, pausas activas",
			Signage:        "Señalización de áreas con alto nivel de ruido, demarcación de zonas",
			PPE:            "Protectores auditivos certificados (copa o inserción) con NRR adecuado",
		},
	},
	ProfileLighting: {
		Source:           "Mejorar luminarias, aumentar potencia, luz natural",
		Medium:           "Redistribución de puntos de luz, superficies reflectantes",
		Individual:       "Descansos visuales cada 2 horas, exámenes visuales periódicos",
		WorstConsequence: "Fatiga visual crónica, disminución de agudeza visual",
		Hierarchy: domain.ControlHierarchy{
			Engineering:    "Instalar iluminación LED adecuada, aprovechamiento de luz natural",
			Administrative: "Pausas visuales, mantenimiento de luminarias",
			Signage:        "No aplica",
			PPE:            "No aplica",
		},
	},
	ProfileProlongedPostures: {
		Source:           "Rediseño ergonómico de estaciones de trabajo",
		Medium:           "Mobiliario ergonómico ajustable",
		Individual:       "Pausas activas cada hora, ejercicios de estiramiento",
		WorstConsequence: "Desórdenes musculoesqueléticos, hernias discales",
		Hierarchy: domain.ControlHierarchy{
			Elimination:    "Automatización de tareas repetitivas",
			Substitution:   "Rotación de puestos de trabajo",
			Engineering:    "Sillas ergonómicas, escritorios ajustables, soportes para monitor",
			Administrative: "Programa de pausas activas, capacitación en higiene postural",
			PPE:            "No aplica",
		},
	},
	ProfileManualHandling: {
		Source:           "Reducir peso de cargas, dividir cargas pesadas",
		Medium:           "Ayudas mecánicas (carretillas, montacargas)",
		Individual:       "Capacitación en técnica de levantamiento, fortalecimiento muscular",
		WorstConsequence: "Hernias discales, lesiones lumbares crónicas",
		Hierarchy: domain.ControlHierarchy{
			Elimination:    "Automatización de procesos de carga",
			Substitution:   "Uso de equipos mecánicos para manipulación",
			Engineering:    "Transpaletas, montacargas, grúas",
			Administrative: "Límite de peso por persona (25 kg), trabajo en equipo para cargas pesadas",
			Signage:        "Señalización de peso de cargas",
			PPE:            "Faja lumbar (como complemento, no como control principal), guantes antideslizantes",
		},
	},
	ProfileRepetitiveMovement: {
		Source:           "Rediseño de tareas para reducir repetitividad",
		Medium:           "Herramientas ergonómicas, automatización parcial",
		Individual:       "Rotación de tareas, pausas activas, ejercicios de estiramiento",
		WorstConsequence: "Síndrome de túnel carpiano, tendinitis crónica",
		Hierarchy: domain.ControlHierarchy{
			Substitution:   "Automatización de movimientos repetitivos",
			Engineering:    "Herramientas con diseño ergonómico, reducción de fuerza requerida",
			Administrative: "Rotación de puestos cada 2 horas, micropausas cada 30 minutos",
			PPE:            "Muñequeras ergonómicas (solo como complemento)",
		},
	},
	ProfileThermalStress: {
		Source:           "Aislar fuentes de calor, ventilación natural",
		Medium:           "Ventilación forzada, aire acondicionado, barreras térmicas",
		Individual:       "Hidratación constante, aclimatación gradual, rotación",
		WorstConsequence: "Golpe de calor, deshidratación severa",
		Hierarchy: domain.ControlHierarchy{
			Engineering:    "Ventilación mecánica, aire acondicionado, aislamiento térmico",
			Administrative: "Reducir tiempo de exposición, pausas en áreas frescas, hidratación",
			PPE:            "Ropa de trabajo liviana y transpirable, gorras con protección solar",
		},
	},
	ProfileChemical: {
		Source:           "Sustitución por sustancias menos peligrosas, procesos cerrados",
		Medium:           "Ventilación localizada, extracción de vapores, cabinas",
		Individual:       "EPP respiratorio, capacitación en manejo de químicos",
		WorstConsequence: "Intoxicación aguda, enfermedades respiratorias crónicas",
		Hierarchy: domain.ControlHierarchy{
			Elimination:    "Eliminación del agente químico del proceso",
			Substitution:   "Reemplazo por productos menos tóxicos",
			Engineering:    "Sistemas de extracción localizada, procesos cerrados, cabinas de flujo laminar",
			Administrative: "Procedimientos seguros de trabajo, fichas de seguridad disponibles, capacitación",
			Signage:        "Señalización de riesgo químico, etiquetado de sustancias",
			PPE:            "Respirador con filtros apropiados, guantes químicos, gafas de seguridad, ropa protectora",
		},
	},
	ProfileBiological: {
		Source:           "Esterilización, desinfección de áreas",
		Medium:           "Barreras físicas, ventilación adecuada",
		Individual:       "Inmunizaciones, higiene personal, EPP",
		WorstConsequence: "Infecciones graves, enfermedades transmisibles",
		Hierarchy: domain.ControlHierarchy{
			Elimination:    "Eliminar la fuente de exposición cuando sea posible",
			Substitution:   "Procesos que minimicen el contacto con agentes biológicos",
			Engineering:    "Cabinas de bioseguridad, autoclave, sistemas de ventilación",
			Administrative: "Protocolos de bioseguridad, programa de vacunación, lavado de manos",
			Signage:        "Señalización de riesgo biológico, áreas restringidas",
			PPE:            "Guantes, mascarilla, bata, gafas de protección",
		},
	},
}

// Folded hazard names, as entered in the factor catalog, that map to a profile.
var controlAliases = map[string]ControlProfile{
	"ruido":                         ProfileNoise,
	"iluminacion":                   ProfileLighting,
	"posturas prolongadas":          ProfileProlongedPostures,
	"video terminales":              ProfileProlongedPostures,
	"manipulacion manual de cargas": ProfileManualHandling,
	"manipulacion de cargas":        ProfileManualHandling,
	"movimiento repetitivo":         ProfileRepetitiveMovement,
	"estres termico":                ProfileThermalStress,
	"quimico":                       ProfileChemical,
	"biologico":                     ProfileBiological,
}

var classificationProfiles = map[domain.Classification]ControlProfile{
	domain.Noise:               ProfileNoise,
	domain.InadequateLighting:  ProfileLighting,
	domain.Temperature:         ProfileThermalStress,
	domain.ForcedPostures:      ProfileProlongedPostures,
	domain.ProlongedPosture:    ProfileProlongedPostures,
	domain.ManualLoadHandling:  ProfileManualHandling,
	domain.RepetitiveMovements: ProfileRepetitiveMovement,
}

var categoryProfiles = map[domain.HazardCategory]ControlProfile{
	domain.CategoryChemical:   ProfileChemical,
	domain.CategoryBiological: ProfileBiological,
}

// LookupControls returns the defaults for profile p.
func LookupControls(p ControlProfile) (ControlDefaults, bool) {
	d, ok := controlTable[p]
	return d, ok
}

// ControlProfileFor resolves a hazard name to a control profile. The name is
// matched, ignoring case and accents, against known factor names, then
// classification codes and labels, then category names. The classification
// match also covers every classification of the chemical and biological
// categories.
func ControlProfileFor(name string) (ControlProfile, bool) {
	if domain.Blank(name) {
		return "", false
	}
	if p, ok := controlAliases[domain.Fold(name)]; ok {
		return p, true
	}
	if c, ok := domain.ParseClassification(name); ok {
		return ControlProfileForClassification(c)
	}
	if cat, ok := domain.ParseCategory(name); ok {
		p, ok := categoryProfiles[cat]
		return p, ok
	}
	return "", false
}

// ControlProfileForClassification maps a classification to its profile.
func ControlProfileForClassification(c domain.Classification) (ControlProfile, bool) {
	if p, ok := classificationProfiles[c]; ok {
		return p, true
	}
	p, ok := categoryProfiles[c.Category()]
	return p, ok
}
