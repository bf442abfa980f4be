package ancmod

// Fuzz is a go-fuzz entry point exercising the image decoder against
// arbitrary input bytes. It returns 1 for inputs that decode into a
// structurally valid image (interesting for the corpus), 0 otherwise.
func Fuzz(data []byte) int {
	img, err := OpenBytes(data, nil)
	if err != nil {
		return 0
	}
	for id := range img.sections {
		section, _ := img.Section(id)
		switch id {
		case SectionIDType:
			ConvertTypeSection(section)
		case SectionIDFunction:
			ConvertFunctionSection(section)
		case SectionIDLocalVariable:
			ConvertLocalVariableSection(section)
		case SectionIDReadOnlyData, SectionIDReadWriteData:
			ConvertDataSection(section)
		case SectionIDUninitData:
			ConvertUninitDataSection(section)
		case SectionIDImportModule:
			ConvertImportModuleSection(section)
		}
	}
	return 1
}
