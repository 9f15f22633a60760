package catalog

import "github.com/sgsst/profesiograma-go/internal/domain"

// HazardText holds the candidate hazard descriptions and health effects
// offered for a classification. The first of each is the default.
type HazardText struct {
	Descriptions []string `json:"descriptions"`
	Effects      []string `json:"effects"`
}

var vaporsAndGases = HazardText{
	Descriptions: []string{
		"Exposición a vapores de solventes orgánicos (tolueno, xileno, acetona)",
		"Inhalación de gases tóxicos (monóxido de carbono, cloro, amoníaco)",
	},
	Effects: []string{
		"Intoxicación aguda, mareo, náuseas",
		"Daño hepático y renal crónico",
		"Irritación de vías respiratorias, edema pulmonar",
	},
}

var textTable = map[domain.Classification]HazardText{
	domain.Noise: {
		Descriptions: []string{
			"Exposición continua a ruido generado por maquinaria, equipos y procesos industriales",
			"Ruido intermitente producido por herramientas neumáticas y eléctricas",
			"Ruido de impacto generado por operaciones de martillado, troquelado o prensado",
		},
		Effects: []string{
			"Hipoacusia neurosensorial (pérdida auditiva inducida por ruido)",
			"Trauma acústico, fatiga auditiva temporal",
			"Estrés, irritabilidad, trastornos del sueño",
			"Dificultad para comunicarse, disminución de la concentración",
		},
	},
	domain.Vibration: {
		Descriptions: []string{
			"Vibración transmitida al sistema mano-brazo por herramientas vibratorias",
			"Vibración de cuerpo entero transmitida por vehículos y maquinaria pesada",
		},
		Effects: []string{
			"Síndrome de vibración mano-brazo, enfermedad de Raynaud",
			"Trastornos musculoesqueléticos en columna vertebral",
			"Alteraciones circulatorias, entumecimiento y hormigueo",
		},
	},
	domain.InadequateLighting: {
		Descriptions: []string{
			"Iluminación insuficiente en áreas de trabajo que requieren precisión visual",
			"Deslumbramiento directo o reflejado en pantallas y superficies brillantes",
		},
		Effects: []string{
			"Fatiga visual, astenopía, ojo seco",
			"Cefalea tensional, dolor ocular",
			"Errores en tareas de precisión",
		},
	},
	domain.Temperature: {
		Descriptions: []string{
			"Exposición a altas temperaturas en procesos de fundición, hornos y calderas",
			"Trabajo en ambientes fríos como cámaras de refrigeración",
		},
		Effects: []string{
			"Golpe de calor, agotamiento por calor, deshidratación",
			"Hipotermia, congelamiento de extremidades",
			"Enfermedades cardiovasculares exacerbadas",
		},
	},
	domain.Dusts: {
		Descriptions: []string{
			"Inhalación de polvo de madera, fibras vegetales",
			"Exposición a polvo mineral en minería y construcción",
			"Inhalación de polvo de sílice en operaciones de corte, pulido de piedra",
			"Chorreado con arena, demolición de concreto",
		},
		Effects: []string{
			"Neumoconiosis (silicosis, asbestosis)",
			"Enfermedad pulmonar obstructiva crónica (EPOC)",
			"Asma ocupacional, rinitis alérgica",
			"Silicosis (fibrosis pulmonar irreversible)",
			"Mayor riesgo de tuberculosis pulmonar",
		},
	},
	domain.Vapors: vaporsAndGases,
	domain.Gases:  vaporsAndGases,
	domain.ForcedPostures: {
		Descriptions: []string{
			"Permanecer sentado más de 6 horas continuas sin pausas",
			"Bipedestación prolongada en labores de atención al público",
		},
		Effects: []string{
			"Dolor lumbar crónico, lumbago",
			"Trastornos circulatorios (varices, edema)",
			"Fatiga muscular, contracturas cervicales",
		},
	},
	domain.RepetitiveMovements: {
		Descriptions: []string{
			"Movimientos repetitivos de muñeca y dedos en digitación",
			"Ciclos de trabajo menores a 30 segundos repetidos continuamente",
		},
		Effects: []string{
			"Síndrome del túnel carpiano",
			"Tendinitis de muñeca, codo (epicondilitis)",
			"Lesiones por trauma acumulativo",
		},
	},
	domain.ManualLoadHandling: {
		Descriptions: []string{
			"Levantamiento de objetos pesados (>25 kg) sin ayudas mecánicas",
			"Transporte manual de cargas en distancias prolongadas",
		},
		Effects: []string{
			"Hernia discal lumbar",
			"Lumbalgia mecánica aguda o crónica",
			"Lesiones musculoesqueléticas de hombro y espalda",
		},
	},
	// Video display work.
	domain.ProlongedPosture: {
		Descriptions: []string{
			"Uso prolongado de computadores sin pausas activas",
			"Mala postura frente a pantallas de visualización de datos (PVD)",
		},
		Effects: []string{
			"Síndrome visual informático, ojo seco",
			"Trastornos musculoesqueléticos cervicales y de hombros",
			"Síndrome del túnel carpiano por uso prolongado de mouse/teclado",
		},
	},
	domain.WorkStress: {
		Descriptions: []string{
			"Altas demandas laborales con bajo control sobre el trabajo",
			"Presión de tiempo constante, plazos ajustados",
		},
		Effects: []string{
			"Síndrome de burnout (agotamiento profesional)",
			"Trastornos de ansiedad y depresión",
			"Hipertensión arterial, enfermedades cardiovasculares",
		},
	},
	domain.MentalWorkload: {
		Descriptions: []string{
			"Procesamiento continuo de información compleja",
			"Toma de decisiones críticas bajo presión",
		},
		Effects: []string{
			"Fatiga mental, dificultad de concentración",
			"Cefalea tensional, irritabilidad",
			"Trastornos de ansiedad",
		},
	},
}

// LookupText returns the candidate descriptions and effects for c.
func LookupText(c domain.Classification) (HazardText, bool) {
	t, ok := textTable[c]
	return t, ok
}
