// Package spltest holds SPL documents shared by tests across packages.
package spltest

import "fmt"

// Scenario values of PrescriptionXML.
const (
	PrescriptionSetID      = "abc"
	PrescriptionDocumentID = "d1b64b62-1a2e-4b8a-9d7f-2c7a3c1e0f01"
	PrescriptionNDC        = "12345-6789"
	PrescriptionPackageNDC = "12345-6789-01"
	PrescriptionUNII       = "57Y76R9ATQ"
	LactoseUNII            = "EWQ57Q8I5X"
)

// PrescriptionXML is a prescription label with one product (two
// ingredients, one package), a boxed warning with a nested indications
// section, an adverse reactions section and one untitled, uncoded section.
const PrescriptionXML = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <id root="d1b64b62-1a2e-4b8a-9d7f-2c7a3c1e0f01"/>
  <code code="34391-3" codeSystem="2.16.840.1.113883.6.1" displayName="HUMAN PRESCRIPTION DRUG LABEL"/>
  <title>OXYCODONE HYDROCHLORIDE tablet <content styleCode="bold">CII</content></title>
  <effectiveTime value="20240115093000"/>
  <setId root="abc"/>
  <versionNumber value="3"/>
  <author>
    <assignedEntity>
      <representedOrganization>
        <id root="1.3.6.1.4.1.519.1" extension="123456789"/>
        <name>Acme Pharma Inc.</name>
        <assignedEntity>
          <assignedOrganization>
            <id root="1.3.6.1.4.1.519.1" extension="987654321"/>
            <id root="2.16.840.1.113883.4.82" extension="3001234567"/>
            <id root="1.3.6.1.4.1.519.1" extension="123456789"/>
            <name>Acme Plant</name>
          </assignedOrganization>
        </assignedEntity>
      </representedOrganization>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>
          <id root="5c2f0e5e-0d7b-4f0a-8a55-0b9d1c4e7a11"/>
          <code code="48780-1" codeSystem="2.16.840.1.113883.6.1" displayName="SPL PRODUCT DATA ELEMENTS SECTION"/>
          <subject>
            <manufacturedProduct>
              <manufacturedProduct>
                <code code="12345-6789" codeSystem="2.16.840.1.113883.6.69"/>
                <name>Oxycodone <suffix>ER</suffix></name>
                <formCode code="C42998" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="TABLET"/>
                <asEntityWithGeneric>
                  <genericMedicine>
                    <name>oxycodone hydrochloride</name>
                  </genericMedicine>
                </asEntityWithGeneric>
                <ingredient classCode="ACTIB">
                  <quantity>
                    <numerator value="10" unit="mg"/>
                    <denominator value="1" unit="1"/>
                  </quantity>
                  <ingredientSubstance>
                    <code code="57Y76R9ATQ" codeSystem="2.16.840.1.113883.4.9"/>
                    <name>OXYCODONE HYDROCHLORIDE</name>
                    <activeMoiety>
                      <activeMoiety>
                        <code code="CD35PMG570" codeSystem="2.16.840.1.113883.4.9"/>
                        <name>OXYCODONE</name>
                      </activeMoiety>
                    </activeMoiety>
                  </ingredientSubstance>
                </ingredient>
                <ingredient classCode="IACT">
                  <ingredientSubstance>
                    <code code="EWQ57Q8I5X" codeSystem="2.16.840.1.113883.4.9"/>
                    <name>LACTOSE MONOHYDRATE</name>
                  </ingredientSubstance>
                </ingredient>
                <asContent>
                  <quantity>
                    <numerator value="100" unit="1"/>
                    <denominator value="1" unit="1"/>
                  </quantity>
                  <containerPackagedProduct>
                    <code code="12345-6789-01" codeSystem="2.16.840.1.113883.6.69"/>
                    <formCode code="C43169" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="BOTTLE"/>
                  </containerPackagedProduct>
                  <subjectOf>
                    <marketingAct>
                      <code code="C53292" codeSystem="2.16.840.1.113883.3.26.1.1"/>
                      <statusCode code="active"/>
                      <effectiveTime>
                        <low value="20200101"/>
                      </effectiveTime>
                    </marketingAct>
                  </subjectOf>
                </asContent>
              </manufacturedProduct>
              <subjectOf>
                <approval>
                  <id root="2.16.840.1.113883.3.150" extension="NDA020553"/>
                  <code code="C73594" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="NDA"/>
                </approval>
              </subjectOf>
              <subjectOf>
                <policy classCode="DEADrugSchedule">
                  <code code="C48675" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="CII"/>
                </policy>
              </subjectOf>
              <subjectOf>
                <characteristic>
                  <code code="SPLCOLOR" codeSystem="2.16.840.1.113883.1.11.19255"/>
                  <value xsi:type="CE" code="C48325" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="WHITE"/>
                </characteristic>
              </subjectOf>
              <subjectOf>
                <characteristic>
                  <code code="SPLSHAPE" codeSystem="2.16.840.1.113883.1.11.19255"/>
                  <value xsi:type="CE" code="C48348" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="ROUND"/>
                </characteristic>
              </subjectOf>
              <subjectOf>
                <characteristic>
                  <code code="SPLSIZE" codeSystem="2.16.840.1.113883.1.11.19255"/>
                  <value xsi:type="PQ" value="8" unit="mm"/>
                </characteristic>
              </subjectOf>
              <subjectOf>
                <characteristic>
                  <code code="SPLIMPRINT" codeSystem="2.16.840.1.113883.1.11.19255"/>
                  <value xsi:type="ST">OC;10</value>
                </characteristic>
              </subjectOf>
              <consumedIn>
                <substanceAdministration>
                  <routeCode code="C38288" codeSystem="2.16.840.1.113883.3.26.1.1" displayName="ORAL"/>
                </substanceAdministration>
              </consumedIn>
            </manufacturedProduct>
          </subject>
        </section>
      </component>
      <component>
        <section>
          <code code="34066-1" codeSystem="2.16.840.1.113883.6.1" displayName="BOXED WARNING SECTION"/>
          <title>WARNING: ADDICTION</title>
          <text><paragraph>Risk of <content styleCode="bold">addiction</content>.</paragraph><paragraph>Second   line</paragraph></text>
          <component>
            <section>
              <code code="34067-9" codeSystem="2.16.840.1.113883.6.1"/>
              <text><list><item>Pain</item><item>Severe pain</item></list></text>
            </section>
          </component>
        </section>
      </component>
      <component>
        <section>
          <text>Untitled narrative</text>
        </section>
      </component>
      <component>
        <section>
          <code code="34084-4" codeSystem="2.16.840.1.113883.6.1" displayName="ADVERSE REACTIONS SECTION"/>
          <title>ADVERSE REACTIONS</title>
          <text>Nausea &amp; constipation.</text>
        </section>
      </component>
    </structuredBody>
  </component>
</document>
`

// NoProductXML is an administrative document without any manufactured
// product.
const NoProductXML = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <id root="0b1f3c2a-7e4d-4a9b-8c6f-1d2e3f4a5b6c"/>
  <code code="53409-9" codeSystem="2.16.840.1.113883.6.1" displayName="BULK INGREDIENT"/>
  <setId root="7f3e2d1c-0b9a-4876-a5b4-c3d2e1f0a9b8"/>
  <versionNumber value="1"/>
  <component>
    <structuredBody>
      <component>
        <section>
          <code code="42229-5" codeSystem="2.16.840.1.113883.6.1"/>
          <title>SPL UNCLASSIFIED SECTION</title>
          <text><paragraph>Administrative content only.</paragraph></text>
        </section>
      </component>
    </structuredBody>
  </component>
</document>
`

// HomeopathicXML is a homeopathic label whose active ingredient potency is
// expressed as a numerator without a denominator.
const HomeopathicXML = `<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3">
  <id root="2a3b4c5d-6e7f-4081-9a2b-3c4d5e6f7081"/>
  <code code="34390-5" codeSystem="2.16.840.1.113883.6.1" displayName="HUMAN OTC DRUG LABEL"/>
  <title>ARNICA 6X pellets</title>
  <effectiveTime value="20230301"/>
  <setId root="4B5C6D7E-8F90-4A1B-2C3D-4E5F60718293"/>
  <versionNumber value="1"/>
  <author>
    <assignedEntity>
      <representedOrganization>
        <name>Remedy Labs</name>
      </representedOrganization>
    </assignedEntity>
  </author>
  <component>
    <structuredBody>
      <component>
        <section>
          <code code="48780-1" codeSystem="2.16.840.1.113883.6.1"/>
          <subject>
            <manufacturedProduct>
              <manufacturedProduct>
                <name>Arnica</name>
                <formCode code="C42938" displayName="PELLET"/>
                <ingredient classCode="ACTIB">
                  <quantity>
                    <numerator value="6" unit="[hp_X]"/>
                  </quantity>
                  <ingredientSubstance>
                    <code code="O80TY208ZW" codeSystem="2.16.840.1.113883.4.9"/>
                    <name>ARNICA MONTANA</name>
                    <activeMoiety>
                      <activeMoiety>
                        <name>ARNICA MONTANA WHOLE</name>
                      </activeMoiety>
                    </activeMoiety>
                  </ingredientSubstance>
                </ingredient>
                <ingredient classCode="INGR">
                  <ingredientSubstance/>
                </ingredient>
              </manufacturedProduct>
              <subjectOf>
                <approval>
                  <id root="2.16.840.1.113883.3.9421" extension="M012"/>
                  <code code="C73614" codeSystem="2.16.840.1.113883.3.26.1.1"/>
                </approval>
              </subjectOf>
            </manufacturedProduct>
          </subject>
        </section>
      </component>
    </structuredBody>
  </component>
</document>
`

// Document wraps header and body fragments in an SPL document element. body
// is placed inside component/structuredBody.
func Document(header, body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<document xmlns="urn:hl7-org:v3" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
%s
  <component>
    <structuredBody>
%s
    </structuredBody>
  </component>
</document>
`, header, body)
}

// Section returns a structuredBody component holding one coded section.
func Section(code, title, text string) string {
	return fmt.Sprintf(`<component><section><code code="%s" codeSystem="2.16.840.1.113883.6.1"/><title>%s</title><text>%s</text></section></component>`, code, title, text)
}
