package importer

// Dataset is one specialty's curated records.
type Dataset struct {
	Specialty            string
	SpecialtyDescription string
	Conditions           []ConditionRecord
	Medications          []MedicationRecord
	References           []ReferenceRecord
	Guidelines           []GuidelineRecord
	Links                []Link
}

// Link pairs a medication with a condition by name.
type Link struct {
	Medication string
	Condition  string
}

// Datasets returns the built-in seed corpus, one dataset per specialty.
func Datasets() []Dataset {
	return []Dataset{
		cardiology(),
		neurology(),
		pulmonology(),
		endocrinology(),
		psychiatry(),
	}
}

func cardiology() Dataset {
	return Dataset{
		Specialty:            "Cardiology",
		SpecialtyDescription: "Disorders of the heart and cardiovascular system.",
		Conditions: []ConditionRecord{
			{
				Name:        "Hypertension",
				Description: "Persistently elevated arterial blood pressure that over time damages vessels and raises the risk of heart disease and stroke.",
				Symptoms:    []string{"Headaches", "Shortness of breath", "Nosebleeds"},
				Treatments:  []string{"Lifestyle changes", "Antihypertensive medication", "Regular monitoring"},
				References: []RefLink{
					{Title: "JNC 8 Hypertension Guidelines", URL: "https://jamanetwork.com/journals/jama/fullarticle/1791497"},
				},
			},
			{
				Name:        "Coronary Artery Disease",
				Description: "Narrowing of the major blood vessels supplying the heart, usually from cholesterol-containing plaques or inflammation.",
				Symptoms:    []string{"Chest pain (angina)", "Shortness of breath", "Fatigue", "Nausea"},
				Treatments:  []string{"Lifestyle changes", "Statins", "Revascularization procedures", "Cardiac rehabilitation"},
			},
			{
				Name:        "Heart Failure",
				Description: "The heart muscle no longer pumps blood as well as it should, leading to fatigue, breathlessness and fluid buildup.",
				Symptoms:    []string{"Shortness of breath", "Fatigue and weakness", "Swelling in legs and ankles", "Rapid or irregular heartbeat"},
				Treatments:  []string{"ACE inhibitors", "Beta blockers", "Diuretics", "Salt restriction"},
			},
		},
		Medications: []MedicationRecord{
			{
				Name:              "Lisinopril",
				ClassName:         "ACE Inhibitor",
				Description:       "Angiotensin-converting enzyme inhibitor used for blood pressure control and heart failure.",
				Uses:              []string{"Hypertension", "Heart Failure"},
				SideEffects:       []string{"Dry cough", "Dizziness", "Hyperkalemia"},
				Dosing:            "10-40mg once daily",
				Contraindications: []string{"Pregnancy", "History of angioedema"},
			},
			{
				Name:              "Metoprolol",
				ClassName:         "Beta Blocker",
				Description:       "Cardioselective beta blocker for hypertension, angina and heart failure.",
				Uses:              []string{"Hypertension", "Heart Failure", "Angina"},
				SideEffects:       []string{"Fatigue", "Bradycardia", "Cold extremities"},
				Dosing:            "25-200mg daily in divided doses",
				Contraindications: []string{"Severe bradycardia", "Second or third degree heart block"},
			},
			{
				Name:              "Atorvastatin",
				ClassName:         "Statin",
				Description:       "HMG-CoA reductase inhibitor for lipid lowering and cardiovascular risk reduction.",
				UsesText:          `["Hyperlipidemia", "Coronary Artery Disease"]`,
				SideEffects:       []string{"Muscle aches", "Elevated liver enzymes"},
				Dosing:            "10-80mg once daily in the evening",
				Contraindications: []string{"Active liver disease", "Pregnancy"},
			},
		},
		References: []ReferenceRecord{
			{
				Title:       "2017 ACC/AHA Guideline for High Blood Pressure in Adults",
				Authors:     "Whelton PK, Carey RM, Aronow WS",
				Publication: "Journal of the American College of Cardiology",
				Year:        2018,
				DOI:         "10.1016/j.jacc.2017.11.006",
				URL:         "https://www.ahajournals.org/doi/10.1161/HYP.0000000000000065",
			},
		},
		Guidelines: []GuidelineRecord{
			{
				Title:        "Guideline for the Management of Heart Failure",
				Organization: "American Heart Association",
				Year:         2022,
				Summary:      "Staging, pharmacotherapy and device therapy recommendations for heart failure with reduced and preserved ejection fraction.",
				URL:          "https://www.ahajournals.org/doi/10.1161/CIR.0000000000001063",
			},
		},
		Links: []Link{
			{Medication: "Lisinopril", Condition: "Hypertension"},
			{Medication: "Lisinopril", Condition: "Heart Failure"},
			{Medication: "Metoprolol", Condition: "Hypertension"},
			{Medication: "Metoprolol", Condition: "Heart Failure"},
			{Medication: "Atorvastatin", Condition: "Coronary Artery Disease"},
		},
	}
}

func neurology() Dataset {
	return Dataset{
		Specialty:            "Neurology",
		SpecialtyDescription: "Disorders of the brain, spinal cord and peripheral nerves.",
		Conditions: []ConditionRecord{
			{
				Name:        "Migraine",
				Description: "Recurrent moderate to severe headache, often one-sided and pulsating, frequently with nausea and sensitivity to light and sound.",
				Symptoms:    []string{"Throbbing headache", "Nausea", "Photophobia", "Visual aura"},
				Treatments:  []string{"Triptans", "NSAIDs", "Preventive therapy", "Trigger avoidance"},
			},
			{
				Name:        "Epilepsy",
				Description: "A chronic disorder marked by recurrent unprovoked seizures caused by abnormal electrical activity in the brain.",
				Symptoms:    []string{"Seizures", "Temporary confusion", "Staring spells", "Loss of awareness"},
				Treatments:  []string{"Antiseizure medication", "Ketogenic diet", "Surgery in refractory cases"},
			},
		},
		Medications: []MedicationRecord{
			{
				Name:              "Sumatriptan",
				ClassName:         "Triptan",
				Description:       "Selective serotonin receptor agonist for acute migraine attacks.",
				Uses:              []string{"Migraine", "Cluster headache"},
				SideEffects:       []string{"Tingling", "Flushing", "Chest tightness"},
				Dosing:            "50-100mg at onset, may repeat after 2 hours",
				Contraindications: []string{"Ischemic heart disease", "Uncontrolled hypertension"},
			},
			{
				Name:              "Levetiracetam",
				ClassName:         "Antiseizure",
				Description:       "Broad-spectrum antiseizure medication with few drug interactions.",
				Uses:              []string{"Epilepsy"},
				SideEffects:       []string{"Somnolence", "Irritability", "Dizziness"},
				Dosing:            "500-1500mg twice daily",
				Contraindications: []string{"Hypersensitivity to levetiracetam"},
			},
		},
		References: []ReferenceRecord{
			{
				Title:       "The International Classification of Headache Disorders, 3rd edition",
				Publication: "Cephalalgia",
				Year:        2018,
				DOI:         "10.1177/0333102417738202",
			},
		},
		Guidelines: []GuidelineRecord{
			{
				Title:        "Practice Guideline for the Treatment of Adults with Epilepsy",
				Organization: "American Academy of Neurology",
				Year:         2018,
				Summary:      "Evidence review of antiseizure drug choice for new-onset and treatment-resistant epilepsy in adults.",
			},
		},
		Links: []Link{
			{Medication: "Sumatriptan", Condition: "Migraine"},
			{Medication: "Levetiracetam", Condition: "Epilepsy"},
		},
	}
}

func pulmonology() Dataset {
	return Dataset{
		Specialty:            "Pulmonology",
		SpecialtyDescription: "Diseases of the lungs and respiratory tract.",
		Conditions: []ConditionRecord{
			{
				Name:        "Asthma",
				Description: "A chronic inflammatory airway disease with variable airflow obstruction, causing wheeze, breathlessness and cough.",
				Symptoms:    []string{"Wheezing", "Shortness of breath", "Chest tightness", "Night-time cough"},
				Treatments:  []string{"Inhaled corticosteroids", "Bronchodilators", "Trigger avoidance"},
			},
			{
				Name:        "Chronic Obstructive Pulmonary Disease",
				Description: "Progressive airflow limitation, usually from smoking, combining chronic bronchitis and emphysema.",
				Symptoms:    []string{"Chronic cough", "Sputum production", "Exertional dyspnea"},
				Treatments:  []string{"Smoking cessation", "Long-acting bronchodilators", "Pulmonary rehabilitation"},
			},
		},
		Medications: []MedicationRecord{
			{
				Name:              "Albuterol",
				ClassName:         "Short-Acting Beta Agonist",
				Description:       "Rapid-onset bronchodilator for relief of acute bronchospasm.",
				Uses:              []string{"Asthma", "Chronic Obstructive Pulmonary Disease"},
				SideEffects:       []string{"Tremor", "Tachycardia", "Nervousness"},
				Dosing:            "2 puffs every 4-6 hours as needed",
				Contraindications: []string{"Hypersensitivity to albuterol"},
			},
			{
				Name:              "Fluticasone",
				ClassName:         "Inhaled Corticosteroid",
				Description:       "Maintenance anti-inflammatory therapy for persistent asthma.",
				Uses:              []string{"Asthma"},
				SideEffects:       []string{"Oral thrush", "Hoarseness"},
				Dosing:            "88-440mcg twice daily",
				Contraindications: []string{"Untreated fungal respiratory infection"},
			},
		},
		Guidelines: []GuidelineRecord{
			{
				Title:        "Global Strategy for Asthma Management and Prevention",
				Organization: "Global Initiative for Asthma",
				Year:         2024,
				Summary:      "Stepwise treatment framework for asthma control across age groups.",
				URL:          "https://ginasthma.org/reports/",
			},
		},
		Links: []Link{
			{Medication: "Albuterol", Condition: "Asthma"},
			{Medication: "Albuterol", Condition: "Chronic Obstructive Pulmonary Disease"},
			{Medication: "Fluticasone", Condition: "Asthma"},
		},
	}
}

func endocrinology() Dataset {
	return Dataset{
		Specialty:            "Endocrinology",
		SpecialtyDescription: "Disorders of hormones and the glands that produce them.",
		Conditions: []ConditionRecord{
			{
				Name:        "Type 2 Diabetes",
				Description: "A metabolic disorder of insulin resistance and relative insulin deficiency leading to chronic hyperglycemia.",
				Symptoms:    []string{"Increased thirst", "Frequent urination", "Fatigue", "Blurred vision"},
				Treatments:  []string{"Diet and exercise", "Metformin", "Glucose monitoring"},
			},
			{
				Name:        "Hypothyroidism",
				Description: "Underproduction of thyroid hormone causing a slowed metabolism, most often from autoimmune thyroiditis.",
				Symptoms:    []string{"Fatigue", "Weight gain", "Cold intolerance", "Dry skin"},
				Treatments:  []string{"Levothyroxine replacement", "Periodic TSH monitoring"},
			},
		},
		Medications: []MedicationRecord{
			{
				Name:              "Metformin",
				ClassName:         "Biguanide",
				Description:       "First-line oral agent that lowers hepatic glucose production.",
				Uses:              []string{"Type 2 Diabetes"},
				SideEffects:       []string{"Gastrointestinal upset", "Vitamin B12 deficiency"},
				Dosing:            "500-1000mg twice daily with meals",
				Contraindications: []string{"Severe renal impairment", "Metabolic acidosis"},
			},
			{
				Name:              "Levothyroxine",
				ClassName:         "Thyroid Hormone",
				Description:       "Synthetic T4 replacement for hypothyroidism.",
				Uses:              []string{"Hypothyroidism"},
				SideEffects:       []string{"Palpitations with overtreatment", "Insomnia"},
				Dosing:            "25-200mcg once daily on an empty stomach",
				Contraindications: []string{"Untreated adrenal insufficiency"},
			},
		},
		References: []ReferenceRecord{
			{
				Title:       "Standards of Care in Diabetes",
				Publication: "Diabetes Care",
				Year:        2025,
				URL:         "https://diabetesjournals.org/care",
			},
		},
		Guidelines: []GuidelineRecord{
			{
				Title:        "Clinical Practice Guideline for Hypothyroidism in Adults",
				Organization: "American Thyroid Association",
				Year:         2014,
				Summary:      "Diagnosis and levothyroxine management recommendations for primary hypothyroidism.",
			},
		},
		Links: []Link{
			{Medication: "Metformin", Condition: "Type 2 Diabetes"},
			{Medication: "Levothyroxine", Condition: "Hypothyroidism"},
		},
	}
}

func psychiatry() Dataset {
	return Dataset{
		Specialty:            "Psychiatry",
		SpecialtyDescription: "Diagnosis and treatment of mental health disorders.",
		Conditions: []ConditionRecord{
			{
				Name:        "Major Depressive Disorder",
				Description: "A mood disorder with persistent sadness and loss of interest that impairs daily functioning for two weeks or longer.",
				Symptoms:    []string{"Depressed mood", "Anhedonia", "Sleep disturbance", "Poor concentration"},
				Treatments:  []string{"Psychotherapy", "SSRIs", "Exercise"},
			},
			{
				Name:        "Generalized Anxiety Disorder",
				Description: "Excessive, difficult-to-control worry on most days for at least six months with physical tension symptoms.",
				Symptoms:    []string{"Persistent worry", "Restlessness", "Muscle tension", "Irritability"},
				Treatments:  []string{"Cognitive behavioral therapy", "SSRIs or SNRIs", "Relaxation training"},
			},
		},
		Medications: []MedicationRecord{
			{
				Name:              "Sertraline",
				ClassName:         "SSRI",
				Description:       "Selective serotonin reuptake inhibitor for depression and anxiety disorders.",
				Uses:              []string{"Major Depressive Disorder", "Generalized Anxiety Disorder"},
				SideEffects:       []string{"Nausea", "Insomnia", "Sexual dysfunction"},
				Dosing:            "50-200mg once daily",
				Contraindications: []string{"Concurrent MAOI use"},
			},
			{
				Name:              "Venlafaxine",
				ClassName:         "SNRI",
				Description:       "Serotonin-norepinephrine reuptake inhibitor for depression and anxiety.",
				Uses:              []string{"Major Depressive Disorder", "Generalized Anxiety Disorder"},
				SideEffects:       []string{"Nausea", "Elevated blood pressure", "Sweating"},
				Dosing:            "75-225mg once daily extended release",
				Contraindications: []string{"Concurrent MAOI use", "Uncontrolled hypertension"},
			},
		},
		Guidelines: []GuidelineRecord{
			{
				Title:        "Practice Guideline for the Treatment of Patients with Major Depressive Disorder",
				Organization: "American Psychiatric Association",
				Year:         2010,
				Summary:      "Assessment, acute treatment and maintenance recommendations for major depression.",
			},
		},
		Links: []Link{
			{Medication: "Sertraline", Condition: "Major Depressive Disorder"},
			{Medication: "Sertraline", Condition: "Generalized Anxiety Disorder"},
			{Medication: "Venlafaxine", Condition: "Major Depressive Disorder"},
		},
	}
}
